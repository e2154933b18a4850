package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// RegionData is the face bounding box in pixels
type RegionData struct {
	X int `json:"x" example:"120"`
	Y int `json:"y" example:"80"`
	W int `json:"w" example:"200"`
	H int `json:"h" example:"200"`
}

// ScoreData is one ranked emotion score (0-100)
type ScoreData struct {
	Label string  `json:"label" example:"happy"`
	Score float64 `json:"score" example:"92.4"`
}

// UploadResponse represents the result of analysing an uploaded image
type UploadResponse struct {
	Emotion    string      `json:"emotion" example:"happy"`
	Confidence float64     `json:"confidence" example:"0.92"`
	Region     *RegionData `json:"region"`
	Scores     []ScoreData `json:"scores"`
	Image      string      `json:"image" example:"data:image/jpeg;base64,/9j/4AAQ..."`
	Strategy   string      `json:"strategy,omitempty" example:"deepface/retinaface"`
}

// ObserveEmotionRequest is an emotion reported by the browser client
type ObserveEmotionRequest struct {
	Emotion    string  `json:"emotion" example:"sad"`
	Confidence float64 `json:"confidence" example:"0.7"`
}

// StatusResponse acknowledges a write
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// EmotionResponse is the current emotion snapshot
type EmotionResponse struct {
	Emotion    string  `json:"emotion" example:"neutral"`
	Confidence float64 `json:"confidence" example:"0"`
	Source     string  `json:"source" example:"default"`
	UpdatedAt  string  `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// RecommendationRequest optionally names the emotion to respond to
type RecommendationRequest struct {
	Emotion string `json:"emotion,omitempty" example:"happy"`
}

// RecommendationResponse is the generated or fallback text
type RecommendationResponse struct {
	Emotion        string `json:"emotion" example:"happy"`
	Recommendation string `json:"recommendation" example:"Keep smiling, your energy is contagious!"`
	Fallback       bool   `json:"fallback" example:"false"`
	Provider       string `json:"provider,omitempty" example:"gemini"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

func internalError() response.Response {
	return response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
}

func rateLimited() response.Response {
	return response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests")
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger(host string) *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "MoodMirror API",
		Version:     "v1.0.0",
		Description: "Webcam emotion companion: classifies the dominant facial emotion and answers with a short motivational message",
		Host:        host,
		Path:        "/api",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /api/upload - Analyse an image
		endpoint.New(
			endpoint.POST,
			"/upload",
			endpoint.WithTags("Emotion"),
			endpoint.WithSummary("Analyse the emotion in an image"),
			endpoint.WithDescription("Accepts a multipart field named image (or a raw JPEG/PNG/WebP body). Returns the dominant emotion, the top 3 scores and the annotated image. When no face is found emotion is null and confidence is 0."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data"), mime.MIME("image/jpeg"), mime.MIME("image/png"), mime.MIME("image/webp")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.FileParam("image", parameter.WithDescription("Image to analyse")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "200", "Image analysed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Missing image"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				rateLimited(),
				internalError(),
			}),
		),

		// POST /api/emotion - Report the current emotion
		endpoint.New(
			endpoint.POST,
			"/emotion",
			endpoint.WithTags("Emotion"),
			endpoint.WithSummary("Set the current emotion"),
			endpoint.WithDescription("Records an emotion detected by the client. Confidence is clamped to [0,1]."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(ObserveEmotionRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatusResponse{}, "200", "Emotion recorded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Malformed JSON"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Missing emotion"),
				rateLimited(),
			}),
		),

		// GET /api/emotion - Current emotion
		endpoint.New(
			endpoint.GET,
			"/emotion",
			endpoint.WithTags("Emotion"),
			endpoint.WithSummary("Get the current emotion"),
			endpoint.WithDescription("Returns the last recorded emotion, or neutral with confidence 0 before any update"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmotionResponse{}, "200", "Current emotion"),
			}),
			endpoint.WithErrors([]response.Response{
				rateLimited(),
			}),
		),

		// POST /api/recommendation - Motivational message
		endpoint.New(
			endpoint.POST,
			"/recommendation",
			endpoint.WithTags("Recommendation"),
			endpoint.WithSummary("Get a message for an emotion"),
			endpoint.WithDescription("Generates a short motivational message. Without an emotion the current one is used. When the AI provider is out of quota a static message is returned with fallback=true."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(RecommendationRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecommendationResponse{}, "200", "Message generated"),
			}),
			endpoint.WithErrors([]response.Response{
				rateLimited(),
				response.New(ErrorResponse{Code: "GENERATION_FAILED", Message: "AI generation failed: invalid api key"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "CONFIGURATION_ERROR", Message: "Service is not configured for this operation"}, "503", "Service Unavailable"),
			}),
		),

		// GET /api/recommendation - Same as POST, emotion from query
		endpoint.New(
			endpoint.GET,
			"/recommendation",
			endpoint.WithTags("Recommendation"),
			endpoint.WithSummary("Get a message for an emotion"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("emotion", parameter.Query, parameter.WithDescription("Emotion label (default: current emotion)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecommendationResponse{}, "200", "Message generated"),
			}),
			endpoint.WithErrors([]response.Response{
				rateLimited(),
				response.New(ErrorResponse{Code: "GENERATION_FAILED", Message: "AI generation failed"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "CONFIGURATION_ERROR", Message: "Service is not configured for this operation"}, "503", "Service Unavailable"),
			}),
		),

		// GET /api/video_feed - MJPEG stream
		endpoint.New(
			endpoint.GET,
			"/video_feed",
			endpoint.WithTags("Stream"),
			endpoint.WithSummary("Annotated camera stream"),
			endpoint.WithDescription("multipart/x-mixed-replace stream of JPEG frames with boundary=frame. Every Nth frame is classified, the others carry the last label."),
			endpoint.WithProduce([]mime.MIME{mime.MIME("multipart/x-mixed-replace")}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "CAMERA_UNAVAILABLE", Message: "Camera could not be opened"}, "503", "Service Unavailable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
