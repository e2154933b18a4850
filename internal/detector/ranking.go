package detector

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"
)

// TopN is how many scores are kept in a reading
const TopN = 3

// Dominant returns the highest-scoring label. On ties the one listed
// first wins. ok is false for an empty slice.
func Dominant(scores []domain.EmotionScore) (best domain.EmotionScore, ok bool) {
	for i, s := range scores {
		if i == 0 || s.Score > best.Score {
			best = s
		}
	}
	return best, len(scores) > 0
}

// Rank returns at most n scores ordered by score descending. Equal
// scores keep their input order.
func Rank(scores []domain.EmotionScore, n int) []domain.EmotionScore {
	ranked := append([]domain.EmotionScore(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Interpret turns one raw classification into a reading.
func Interpret(scores []domain.EmotionScore, region *domain.Region) (*domain.EmotionReading, bool) {
	best, ok := Dominant(scores)
	if !ok {
		return nil, false
	}

	reading := &domain.EmotionReading{
		Label:      best.Label,
		Confidence: best.Score / 100,
		Scores:     Rank(scores, TopN),
	}
	if region != nil && region.Valid() {
		r := *region
		reading.Region = &r
	}
	return reading, true
}
