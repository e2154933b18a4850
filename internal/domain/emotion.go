package domain

// Labels produced by the supported classifiers. Some backends use the
// adjective form (fearful, disgusted, surprised) and others the noun form.
const (
	LabelHappy     = "happy"
	LabelSad       = "sad"
	LabelAngry     = "angry"
	LabelFear      = "fear"
	LabelFearful   = "fearful"
	LabelDisgust   = "disgust"
	LabelDisgusted = "disgusted"
	LabelSurprise  = "surprise"
	LabelSurprised = "surprised"
	LabelNeutral   = "neutral"
)

// DefaultEmotion is the state reported before any observation.
const DefaultEmotion = LabelNeutral

// Region is a face bounding box in pixel coordinates of the analysed image.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Valid reports whether the region has a drawable area.
func (r Region) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// EmotionScore is one label with its score in the 0..100 range.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionReading is the interpreted result of a successful classification.
type EmotionReading struct {
	Label      string         `json:"emotion"`
	Confidence float64        `json:"confidence"`
	Region     *Region        `json:"region,omitempty"`
	Scores     []EmotionScore `json:"scores"`
}
