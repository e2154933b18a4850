package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port           int    `envconfig:"PORT" default:"3000"`
	Environment    string `envconfig:"ENV" default:"development"`
	StaticDir      string `envconfig:"STATIC_DIR"`
	MaxUploadBytes int    `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	// JPEGQuality applies to classifier input, upload responses and the stream
	JPEGQuality int `envconfig:"JPEG_QUALITY" default:"85"`

	// Detector
	DetectorProvider         string        `envconfig:"DETECTOR_PROVIDER" default:"deepface"`
	DeepFaceURL              string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5000"`
	DeepFaceBackends         []string      `envconfig:"DEEPFACE_BACKENDS" default:"retinaface,opencv"`
	DeepFaceEnforceDetection bool          `envconfig:"DEEPFACE_ENFORCE_DETECTION" default:"true"`
	DetectorTimeout          time.Duration `envconfig:"DETECTOR_TIMEOUT" default:"10s"`
	AWSRegion                string        `envconfig:"AWS_REGION" default:"us-east-1"`

	// Text generation
	LLMProvider     string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AnthropicAPIKey string        `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
	LLMTimeout      time.Duration `envconfig:"LLM_TIMEOUT" default:"20s"`
	FallbackPolicy  string        `envconfig:"FALLBACK_POLICY" default:"quota_fallback"`

	// Camera stream
	CameraDevice int `envconfig:"CAMERA_DEVICE" default:"0"`
	SampleEvery  int `envconfig:"SAMPLE_EVERY" default:"30"`

	// Rate limiting
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"120"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// RecommendationRateLimit caps AI calls per client and window
	RecommendationRateLimit int `envconfig:"RECOMMENDATION_RATE_LIMIT" default:"10"`

	// MQTT (disabled when broker is empty)
	MQTTBroker   string `envconfig:"MQTT_BROKER"`
	MQTTTopic    string `envconfig:"MQTT_TOPIC" default:"moodmirror/emotion"`
	MQTTClientID string `envconfig:"MQTT_CLIENT_ID" default:"moodmirror"`
	MQTTUsername string `envconfig:"MQTT_USERNAME"`
	MQTTPassword string `envconfig:"MQTT_PASSWORD"`

	// Webhook (disabled when URL is empty)
	WebhookURL         string        `envconfig:"WEBHOOK_URL"`
	WebhookSecret      string        `envconfig:"WEBHOOK_SECRET"`
	WebhookMaxAttempts int           `envconfig:"WEBHOOK_MAX_ATTEMPTS" default:"5"`
	WebhookTimeout     time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.FallbackPolicy {
	case "quota_fallback", "surface":
	default:
		return fmt.Errorf("unknown FALLBACK_POLICY %q", c.FallbackPolicy)
	}
	if c.SampleEvery <= 0 {
		c.SampleEvery = 1
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
