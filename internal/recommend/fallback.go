package recommend

import "github.com/saturnino-fabrica-de-software/moodmirror/internal/domain"

// QuotaNotice prefixes every fallback message.
const QuotaNotice = "⚠️ AI generation is temporarily unavailable (quota exceeded). Here's a message for you:\n\n"

const defaultFallback = "Whatever you're feeling right now is valid. Take a slow breath, " +
	"drink some water, and give yourself a moment. You're doing better than you think."

// FallbackTable maps labels to canned messages. Lookup is case-sensitive.
type FallbackTable struct {
	messages map[string]string
	def      string
}

func NewFallbackTable(messages map[string]string, def string) FallbackTable {
	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[k] = v
	}
	return FallbackTable{messages: copied, def: def}
}

// DefaultFallbackTable covers the whole label vocabulary.
func DefaultFallbackTable() FallbackTable {
	return NewFallbackTable(map[string]string{
		domain.LabelHappy: "Your smile is contagious! Hold on to this feeling and share it " +
			"with someone who could use a bright moment today.",
		domain.LabelSad: "It's okay to feel down sometimes. Be gentle with yourself, reach out " +
			"to someone you trust, and remember that this feeling will pass.",
		domain.LabelAngry: "Anger tells you something matters. Take a few deep breaths, step " +
			"back for a moment, and come back when you feel steadier.",
		domain.LabelFear: "Feeling afraid is your mind trying to protect you. Name one thing " +
			"that is safe around you right now, and take the next small step at your own pace.",
		domain.LabelFearful: "When you feel fearful, slow down your breathing and remind yourself " +
			"that you have handled hard moments before. You can handle this one too.",
		domain.LabelDisgust: "Not everything deserves your energy. Step away from what bothers you " +
			"for a minute and focus on something you genuinely enjoy.",
		domain.LabelDisgusted: "Feeling disgusted is a sign of your own standards. Set a boundary, " +
			"clear your head, and turn toward something that feels clean and good.",
		domain.LabelSurprise: "Life just threw something unexpected at you! Pause, take it in, and " +
			"decide calmly what it means for you.",
		domain.LabelSurprised: "Surprised? Let the moment land before reacting. Unexpected turns " +
			"are often where the best stories begin.",
		domain.LabelNeutral: "A calm moment is a good moment. Use it to set one small, " +
			"kind intention for the rest of your day.",
	}, defaultFallback)
}

// Lookup returns the message for label or the default.
func (t FallbackTable) Lookup(label string) string {
	if msg, ok := t.messages[label]; ok {
		return msg
	}
	return t.def
}
