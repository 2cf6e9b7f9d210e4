package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

var engineBase = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func inbound(content string, at time.Time) entity.InboundMessage {
	return entity.InboundMessage{
		ProviderMessageID: "m-" + content,
		ConversationID:    "c1",
		ContactID:         "u1",
		Content:           content,
		ReceivedAt:        at,
	}
}

func conversationIn(state entity.ConversationState) *entity.Conversation {
	conv := entity.NewConversation("c1", "u1")
	conv.State = state
	return conv
}

func TestProcessFirstContactSchedulesFollowups(t *testing.T) {
	engine := NewConversationEngine()
	conv := entity.NewConversation("c1", "u1")

	result := engine.Process(conv, inbound("Hallo!", engineBase))

	assert.Equal(t, []string{replyAskAds}, result.Outbound)
	assert.Equal(t, entity.StateAwaitingAds, conv.State)
	require.Len(t, result.Tasks, 3)
	assert.Equal(t, entity.TaskNudge30m, result.Tasks[0].TaskType)
	assert.Equal(t, engineBase.Add(30*time.Minute), result.Tasks[0].RunAt)
	assert.Equal(t, engineBase.Add(24*time.Hour), result.Tasks[1].RunAt)
	assert.Equal(t, engineBase.Add(48*time.Hour), result.Tasks[2].RunAt)
}

func TestProcessAdsAnswers(t *testing.T) {
	tests := []struct {
		content    string
		reply      string
		state      entity.ConversationState
		status     entity.ConversationStatus
		adsRunning entity.AdsRunning
	}{
		{"Ja klar", replyAskLeads, entity.StateAwaitingLeads, entity.StatusOpen, entity.AdsYes},
		{"  NEIN ", replyNoAds, entity.StateClosed, entity.StatusDisqualified, entity.AdsNo},
		{"vielleicht", replyRepromptAds, entity.StateAwaitingAds, entity.StatusOpen, entity.AdsUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			conv := conversationIn(entity.StateAwaitingAds)

			result := NewConversationEngine().Process(conv, inbound(tt.content, engineBase))

			assert.Equal(t, []string{tt.reply}, result.Outbound)
			assert.Empty(t, result.Tasks)
			assert.Equal(t, tt.state, conv.State)
			assert.Equal(t, tt.status, conv.Status)
			assert.Equal(t, tt.adsRunning, conv.AdsRunning)
		})
	}
}

func TestProcessLeadVolume(t *testing.T) {
	tests := []struct {
		content string
		reply   string
		status  entity.ConversationStatus
		bucket  entity.LeadBucket
		tasks   int
	}{
		{"so 80", replyTooFewLeads, entity.StatusDisqualified, entity.LeadBucketUnder100, 0},
		{"99", replyTooFewLeads, entity.StatusDisqualified, entity.LeadBucketUnder100, 0},
		{"100", replyQualified, entity.StatusQualified, entity.LeadBucket100To300, 3},
		{"300 Leads", replyQualified, entity.StatusQualified, entity.LeadBucket100To300, 3},
		{"ca. 1.200", replyQualified, entity.StatusQualified, entity.LeadBucketOver300, 3},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			conv := conversationIn(entity.StateAwaitingLeads)

			result := NewConversationEngine().Process(conv, inbound(tt.content, engineBase))

			assert.Equal(t, []string{tt.reply}, result.Outbound)
			assert.Equal(t, entity.StateClosed, conv.State)
			assert.Equal(t, tt.status, conv.Status)
			assert.Equal(t, tt.bucket, conv.MonthlyLeadsBucket)
			assert.Len(t, result.Tasks, tt.tasks)
		})
	}
}

func TestProcessQualificationSchedulesReminders(t *testing.T) {
	conv := conversationIn(entity.StateAwaitingLeads)

	result := NewConversationEngine().Process(conv, inbound("150", engineBase))

	meeting := engineBase.Add(72 * time.Hour)
	require.Len(t, result.Tasks, 3)
	assert.Equal(t, entity.ScheduledTask{ConversationID: "c1", TaskType: entity.TaskReminder22h, RunAt: meeting.Add(-22 * time.Hour)}, result.Tasks[0])
	assert.Equal(t, entity.ScheduledTask{ConversationID: "c1", TaskType: entity.TaskReminder55m, RunAt: meeting.Add(-55 * time.Minute)}, result.Tasks[1])
	assert.Equal(t, entity.ScheduledTask{ConversationID: "c1", TaskType: entity.TaskReminder5m, RunAt: meeting.Add(-5 * time.Minute)}, result.Tasks[2])
}

func TestProcessLeadVolumeWithoutDigitsReprompts(t *testing.T) {
	conv := conversationIn(entity.StateAwaitingLeads)

	result := NewConversationEngine().Process(conv, inbound("keine Ahnung", engineBase))

	assert.Equal(t, []string{replyRepromptLeads}, result.Outbound)
	assert.Equal(t, entity.StateAwaitingLeads, conv.State)
	assert.Equal(t, entity.LeadBucketUnknown, conv.MonthlyLeadsBucket)
}

func TestProcessHandoverFromAnyState(t *testing.T) {
	states := []entity.ConversationState{
		entity.StateAwaitingConsentAck,
		entity.StateAwaitingAds,
		entity.StateAwaitingLeads,
		entity.StateClosed,
	}

	for _, state := range states {
		t.Run(string(state), func(t *testing.T) {
			conv := conversationIn(state)

			result := NewConversationEngine().Process(conv, inbound(" Berater ", engineBase))

			assert.Equal(t, []string{replyHandover}, result.Outbound)
			assert.Empty(t, result.Tasks)
			assert.Equal(t, state, conv.State)
			assert.Equal(t, entity.OwnerHuman, conv.Owner)
			assert.Equal(t, entity.StatusHandover, conv.Status)
		})
	}
}

func TestProcessHandoverKeywordMustBeWholeMessage(t *testing.T) {
	conv := conversationIn(entity.StateAwaitingAds)

	result := NewConversationEngine().Process(conv, inbound("nein, kein berater", engineBase))

	assert.Equal(t, []string{replyNoAds}, result.Outbound)
	assert.Equal(t, entity.OwnerBot, conv.Owner)
}

func TestProcessAfterHandoverStaysSilent(t *testing.T) {
	engine := NewConversationEngine()
	conv := entity.NewConversation("c1", "u1")
	engine.Process(conv, inbound("mitarbeiter", engineBase))

	later := engineBase.Add(2 * time.Hour)
	result := engine.Process(conv, inbound("hallo?", later))

	assert.Empty(t, result.Outbound)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, entity.StateAwaitingConsentAck, conv.State)
	require.NotNil(t, conv.ServiceWindowExpiresAt)
	assert.Equal(t, later.Add(entity.ServiceWindow), *conv.ServiceWindowExpiresAt)
}

func TestProcessClosedConversationFallsThrough(t *testing.T) {
	conv := conversationIn(entity.StateClosed)
	conv.Status = entity.StatusQualified

	result := NewConversationEngine().Process(conv, inbound("ja", engineBase))

	assert.Empty(t, result.Outbound)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, entity.StatusQualified, conv.Status)
	require.NotNil(t, conv.ServiceWindowExpiresAt)
	assert.Equal(t, engineBase.Add(24*time.Hour), *conv.ServiceWindowExpiresAt)
}
