package usecase

import (
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

const (
	replyHandover      = "Klar, ich gebe direkt an einen Kollegen weiter 👌"
	replyAskAds        = "Top. Schaltest du aktuell Ads? (Ja/Nein)"
	replyNoAds         = "Danke für deine Offenheit 🙌 Aktuell passt es noch nicht ideal. Wenn sich das ändert, melde dich gerne wieder."
	replyAskLeads      = "Wie viele Leads generierst du ungefähr pro Monat?"
	replyRepromptAds   = "Kannst du mit Ja oder Nein antworten? Schaltest du aktuell Ads?"
	replyTooFewLeads   = "Danke dir 🙏 Unter 100 Leads/Monat ist unser Setup meist noch zu früh. Ich kann dir gern später nochmal schreiben."
	replyQualified     = "Perfekt, das klingt passend ✅ Ich schicke dir jetzt einen Terminvorschlag."
	replyRepromptLeads = "Kannst du eine grobe Zahl nennen (z. B. 80, 150, 400)?"
)

// EngineResult is what one inbound message produced.
type EngineResult struct {
	Outbound []string
	Tasks    []entity.ScheduledTask
}

// ConversationEngine is the qualification state machine. It is the only writer of
// conversation state.
type ConversationEngine struct{}

func NewConversationEngine() *ConversationEngine {
	return &ConversationEngine{}
}

// Process applies one inbound message to conv in place. The service window is
// refreshed for every message, whatever the transition.
func (e *ConversationEngine) Process(conv *entity.Conversation, msg entity.InboundMessage) EngineResult {
	conv.RefreshServiceWindow(msg.ReceivedAt)

	text := entity.NormalizeText(msg.Content)
	intent := entity.ParseIntent(text)

	if intent == entity.IntentHandover {
		conv.Owner = entity.OwnerHuman
		conv.Status = entity.StatusHandover
		return reply(replyHandover)
	}

	if conv.HandedOver() {
		return EngineResult{}
	}

	switch conv.State {
	case entity.StateAwaitingConsentAck:
		conv.State = entity.StateAwaitingAds
		result := reply(replyAskAds)
		result.Tasks = entity.DefaultFollowups(conv.ID, msg.ReceivedAt)
		return result

	case entity.StateAwaitingAds:
		return e.onAds(conv, intent)

	case entity.StateAwaitingLeads:
		return e.onLeads(conv, text, msg)
	}

	return EngineResult{}
}

func (e *ConversationEngine) onAds(conv *entity.Conversation, intent entity.Intent) EngineResult {
	switch intent {
	case entity.IntentDecline:
		conv.AdsRunning = entity.AdsNo
		conv.State = entity.StateClosed
		conv.Status = entity.StatusDisqualified
		return reply(replyNoAds)
	case entity.IntentAffirm:
		conv.AdsRunning = entity.AdsYes
		conv.State = entity.StateAwaitingLeads
		return reply(replyAskLeads)
	default:
		return reply(replyRepromptAds)
	}
}

func (e *ConversationEngine) onLeads(conv *entity.Conversation, text string, msg entity.InboundMessage) EngineResult {
	bucket := entity.ClassifyLeadBucket(text)
	if bucket == entity.LeadBucketUnknown {
		return reply(replyRepromptLeads)
	}

	conv.MonthlyLeadsBucket = bucket
	conv.State = entity.StateClosed

	if !bucket.Qualifies() {
		conv.Status = entity.StatusDisqualified
		return reply(replyTooFewLeads)
	}

	conv.Status = entity.StatusQualified
	result := reply(replyQualified)
	result.Tasks = entity.AppointmentReminders(conv.ID, msg.ReceivedAt)
	return result
}

func reply(text string) EngineResult {
	return EngineResult{Outbound: []string{text}}
}
