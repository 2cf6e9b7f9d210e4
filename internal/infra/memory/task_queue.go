package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

type TaskQueue struct {
	pending []entity.ScheduledTask
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

func (q *TaskQueue) Push(_ context.Context, tasks ...entity.ScheduledTask) error {
	q.pending = append(q.pending, tasks...)
	return nil
}

// PopDue splits the queue in one pass. Tasks due at the same instant keep insertion order.
func (q *TaskQueue) PopDue(_ context.Context, now time.Time) ([]entity.ScheduledTask, error) {
	var due, later []entity.ScheduledTask
	for _, t := range q.pending {
		if t.Due(now) {
			due = append(due, t)
		} else {
			later = append(later, t)
		}
	}
	q.pending = later

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].RunAt.Before(due[j].RunAt)
	})
	return due, nil
}

func (q *TaskQueue) Len(_ context.Context) (int, error) {
	return len(q.pending), nil
}
