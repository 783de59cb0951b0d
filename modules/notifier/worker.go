package notifier

import (
	"context"
	"time"

	"event-dashboard-api/core/config"
	"event-dashboard-api/core/constants"
	"event-dashboard-api/core/logger"
	"event-dashboard-api/modules/reminder/repository"

	"github.com/hibiken/asynq"
)

// Worker runs background maintenance: a periodic sweep deleting
// acknowledged reminders whose event is long past, so the reminders
// table does not grow without bound.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	repo      repository.ReminderRepositoryInterface
}

func NewWorker(cfg config.RedisConfig, repo repository.ReminderRepositoryInterface) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &Worker{server: server, scheduler: scheduler, repo: repo}
}

// Run blocks serving tasks; call it from its own goroutine.
func (w *Worker) Run() error {
	if _, err := w.scheduler.Register("@every 1h", asynq.NewTask(constants.TaskReminderPurge, nil)); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		return err
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskReminderPurge, w.handleReminderPurge)
	return w.server.Run(mux)
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleReminderPurge(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	purged, err := w.repo.PurgeStaleSeen(ctx, cutoff)
	if err != nil {
		logger.Error("Worker:handleReminderPurge:Error:", err)
		return err
	}
	if purged > 0 {
		logger.Info("Purged stale seen reminders", "count", purged, "cutoff", cutoff)
	}
	return nil
}
