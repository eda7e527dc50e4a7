// Package scheduler runs recurring maintenance jobs through asynq.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"slingshot_backend/platform/config"
	"slingshot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// OverdueSweeper flips sent invoices past their due date to overdue.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// InviteCleaner removes expired business invites.
type InviteCleaner interface {
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	invoices OverdueSweeper
	invites  InviteCleaner
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, invoices OverdueSweeper, invites InviteCleaner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		invoices: invoices,
		invites:  invites,
		log:      log,
	}

	mux.HandleFunc(TaskInvoiceOverdueSweep, w.handleInvoiceOverdueSweep)
	mux.HandleFunc(TaskInviteExpirySweep, w.handleInviteExpirySweep)

	return w, nil
}

func (w *Worker) handleInvoiceOverdueSweep(ctx context.Context, task *asynq.Task) error {
	if w.invoices == nil {
		return nil
	}

	if _, err := ParseSweepPayload(task); err != nil {
		return err
	}

	count, err := w.invoices.SweepOverdue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if count > 0 {
		w.log.Info("overdue sweep completed", "invoices", count)
	}
	return nil
}

func (w *Worker) handleInviteExpirySweep(ctx context.Context, task *asynq.Task) error {
	if w.invites == nil {
		return nil
	}

	if _, err := ParseSweepPayload(task); err != nil {
		return err
	}

	count, err := w.invites.DeleteExpiredInvites(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if count > 0 {
		w.log.Info("expired invites removed", "invites", count)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
