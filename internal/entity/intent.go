package entity

import "strings"

// Intent is what a lead's free-text reply asks for.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentHandover
	IntentAffirm
	IntentDecline
)

var handoverKeywords = map[string]struct{}{
	"mitarbeiter": {},
	"berater":     {},
	"anrufen":     {},
}

func (i Intent) String() string {
	switch i {
	case IntentHandover:
		return "handover"
	case IntentAffirm:
		return "affirm"
	case IntentDecline:
		return "decline"
	default:
		return "unrecognized"
	}
}

// NormalizeText trims and lower-cases an inbound message.
func NormalizeText(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

// ParseIntent expects text already passed through NormalizeText.
// Handover keywords must match the whole message; yes/no only look at the first letter.
func ParseIntent(text string) Intent {
	if _, ok := handoverKeywords[text]; ok {
		return IntentHandover
	}
	switch {
	case strings.HasPrefix(text, "j"):
		return IntentAffirm
	case strings.HasPrefix(text, "n"):
		return IntentDecline
	default:
		return IntentUnrecognized
	}
}
