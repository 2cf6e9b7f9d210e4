package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

// SchedulerRunner is the part of the bot the worker drives.
type SchedulerRunner interface {
	RunScheduler(ctx context.Context, now time.Time) (*usecase.SchedulerOutput, error)
}

// SchedulerWorker ticks the scheduler with the wall clock.
type SchedulerWorker struct {
	runner       SchedulerRunner
	tickInterval time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

func NewSchedulerWorker(runner SchedulerRunner, tickInterval time.Duration, logger *slog.Logger) *SchedulerWorker {
	return &SchedulerWorker{
		runner:       runner,
		tickInterval: tickInterval,
		now:          time.Now,
		logger:       logger,
	}
}

// Start runs one tick immediately, then one per interval until ctx is done.
func (w *SchedulerWorker) Start(ctx context.Context) {
	w.logger.Info("scheduler worker started", slog.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("scheduler worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SchedulerWorker) tick(ctx context.Context) {
	out, err := w.runner.RunScheduler(ctx, w.now())
	if err != nil {
		w.logger.Error("scheduler tick failed", slog.Any("error", err))
		return
	}

	middleware.RecordSchedulerResults(out.Results)
	if len(out.Results) > 0 {
		w.logger.Info("scheduler tick",
			slog.Int("due", len(out.Results)),
			slog.Int("sent", len(out.Sent)),
		)
	}
}
