package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFollowups(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	tasks := DefaultFollowups("c1", base)

	require.Len(t, tasks, 3)
	assert.Equal(t, TaskNudge30m, tasks[0].TaskType)
	assert.Equal(t, base.Add(30*time.Minute), tasks[0].RunAt)
	assert.Equal(t, TaskFollowup24h, tasks[1].TaskType)
	assert.Equal(t, base.Add(24*time.Hour), tasks[1].RunAt)
	assert.Equal(t, TaskFollowup48h, tasks[2].TaskType)
	assert.Equal(t, base.Add(48*time.Hour), tasks[2].RunAt)
	for _, task := range tasks {
		assert.Equal(t, "c1", task.ConversationID)
	}
}

func TestAppointmentReminders(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	meeting := base.Add(72 * time.Hour)

	tasks := AppointmentReminders("c1", base)

	require.Len(t, tasks, 3)
	assert.Equal(t, TaskReminder22h, tasks[0].TaskType)
	assert.Equal(t, meeting.Add(-22*time.Hour), tasks[0].RunAt)
	assert.Equal(t, TaskReminder55m, tasks[1].TaskType)
	assert.Equal(t, meeting.Add(-55*time.Minute), tasks[1].RunAt)
	assert.Equal(t, TaskReminder5m, tasks[2].TaskType)
	assert.Equal(t, meeting.Add(-5*time.Minute), tasks[2].RunAt)
}

func TestTemplateForCoversEveryGeneratedTask(t *testing.T) {
	base := time.Now()
	all := append(DefaultFollowups("c1", base), AppointmentReminders("c1", base)...)
	for _, task := range all {
		_, ok := TemplateFor(task.TaskType)
		assert.True(t, ok, "no template for %s", task.TaskType)
	}

	_, ok := TemplateFor(TaskType("birthday_greeting"))
	assert.False(t, ok)
}

func TestScheduledTaskDue(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, ScheduledTask{RunAt: now}.Due(now))
	assert.True(t, ScheduledTask{RunAt: now.Add(-time.Second)}.Due(now))
	assert.False(t, ScheduledTask{RunAt: now.Add(time.Second)}.Due(now))
}

func TestConversationRefreshServiceWindow(t *testing.T) {
	conv := NewConversation("c1", "u1")
	assert.Nil(t, conv.ServiceWindowExpiresAt)
	assert.Equal(t, StateAwaitingConsentAck, conv.State)
	assert.Equal(t, StatusOpen, conv.Status)
	assert.Equal(t, OwnerBot, conv.Owner)

	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	conv.RefreshServiceWindow(at)

	require.NotNil(t, conv.ServiceWindowExpiresAt)
	assert.Equal(t, at.Add(24*time.Hour), *conv.ServiceWindowExpiresAt)
}
