package entity

import (
	"context"
	"time"
)

type TaskType string

const (
	TaskNudge30m    TaskType = "nudge_30m"
	TaskFollowup24h TaskType = "followup_24h"
	TaskFollowup48h TaskType = "followup_48h"
	TaskReminder22h TaskType = "reminder_22h"
	TaskReminder55m TaskType = "reminder_55m"
	TaskReminder5m  TaskType = "reminder_5m"
)

// MeetingOffset places the implicit sales call three days after qualification.
const MeetingOffset = 72 * time.Hour

var taskTemplates = map[TaskType]string{
	TaskNudge30m:    "lead_nudge_v1",
	TaskFollowup24h: "lead_followup_24h_v1",
	TaskFollowup48h: "lead_followup_48h_v1",
	TaskReminder22h: "appointment_reminder_22h_v1",
	TaskReminder55m: "appointment_reminder_55m_v1",
	TaskReminder5m:  "appointment_reminder_5m_v1",
}

// TemplateFor returns the template a task is sent with.
func TemplateFor(t TaskType) (string, bool) {
	name, ok := taskTemplates[t]
	return name, ok
}

type ScheduledTask struct {
	ConversationID string    `json:"conversationId"`
	TaskType       TaskType  `json:"taskType"`
	RunAt          time.Time `json:"runAt"`
}

// Due reports whether the task should fire at now. A task due exactly at now fires.
func (t ScheduledTask) Due(now time.Time) bool {
	return !t.RunAt.After(now)
}

// DefaultFollowups are queued when a lead first answers.
func DefaultFollowups(conversationID string, base time.Time) []ScheduledTask {
	return []ScheduledTask{
		{ConversationID: conversationID, TaskType: TaskNudge30m, RunAt: base.Add(30 * time.Minute)},
		{ConversationID: conversationID, TaskType: TaskFollowup24h, RunAt: base.Add(24 * time.Hour)},
		{ConversationID: conversationID, TaskType: TaskFollowup48h, RunAt: base.Add(48 * time.Hour)},
	}
}

// AppointmentReminders are queued on qualification, relative to a meeting at base+MeetingOffset.
func AppointmentReminders(conversationID string, base time.Time) []ScheduledTask {
	meeting := base.Add(MeetingOffset)
	return []ScheduledTask{
		{ConversationID: conversationID, TaskType: TaskReminder22h, RunAt: meeting.Add(-22 * time.Hour)},
		{ConversationID: conversationID, TaskType: TaskReminder55m, RunAt: meeting.Add(-55 * time.Minute)},
		{ConversationID: conversationID, TaskType: TaskReminder5m, RunAt: meeting.Add(-5 * time.Minute)},
	}
}

type TaskQueueInterface interface {
	Push(ctx context.Context, tasks ...ScheduledTask) error
	// PopDue removes and returns every task due at now, earliest first.
	PopDue(ctx context.Context, now time.Time) ([]ScheduledTask, error)
	Len(ctx context.Context) (int, error)
}
