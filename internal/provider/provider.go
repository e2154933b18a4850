package provider

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

// ErrNoFace é retornado por provedores que sinalizam "sem face" como falha
// (detecção estrita) em vez de um resultado vazio.
var ErrNoFace = errors.New("no face detected")

// EmotionProvider define a interface para provedores de classificação de emoção
type EmotionProvider interface {
	// Name identifica a estratégia nos logs, ex. "deepface/retinaface"
	Name() string

	// AnalyzeEmotion classifica cada face encontrada na imagem JPEG.
	// Um slice vazio significa que nenhuma face foi encontrada.
	AnalyzeEmotion(ctx context.Context, image []byte) ([]Classification, error)
}

// Classification é a saída bruta para uma face. Scores mantém a ordem de
// iteração do provedor, que decide os empates depois.
type Classification struct {
	Scores []domain.EmotionScore `json:"scores"`
	Region *domain.Region        `json:"region,omitempty"`
}
