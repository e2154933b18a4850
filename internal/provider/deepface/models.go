package deepface

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	DetectorBackend  string   `json:"detector_backend"`
	EnforceDetection bool     `json:"enforce_detection"`
}

// AnalyzeResponse from POST /analyze
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
}

type AnalyzeResult struct {
	Region          FacialArea    `json:"region"`
	DominantEmotion string        `json:"dominant_emotion"`
	Emotion         EmotionScores `json:"emotion"`
	FaceConfidence  float64       `json:"face_confidence"`
}

// EmotionScores decodes the DeepFace emotion object keeping key order.
// The order matters: ties resolve to the label DeepFace listed first.
type EmotionScores []domain.EmotionScore

func (s *EmotionScores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("emotion: expected object, got %v", tok)
	}

	scores := make(EmotionScores, 0, 7)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("emotion: expected key, got %v", keyTok)
		}
		var score float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("emotion %q: %w", key, err)
		}
		scores = append(scores, domain.EmotionScore{Label: key, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = scores
	return nil
}

func (s EmotionScores) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sc.Score)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
