package scheduler

import (
	"context"
	"fmt"
	"time"

	"slingshot_backend/platform/config"
	"slingshot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// MaintenanceDispatcher periodically enqueues the recurring maintenance
// sweeps. The actual work happens in the Worker so it benefits from asynq's
// retry semantics.
type MaintenanceDispatcher struct {
	client   *asynq.Client
	queue    string
	interval time.Duration
	log      *logger.Logger
}

func NewMaintenanceDispatcher(cfg config.SchedulerConfig, interval time.Duration, log *logger.Logger) (*MaintenanceDispatcher, error) {
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

	if interval <= 0 {
		interval = time.Hour
	}

	return &MaintenanceDispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		interval: interval,
		log:      log,
	}, nil
}

func (d *MaintenanceDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *MaintenanceDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.enqueueSweeps(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.enqueueSweeps(ctx)
	}
}

func (d *MaintenanceDispatcher) enqueueSweeps(ctx context.Context) {
	payload := SweepPayload{RequestedAt: time.Now().UTC()}

	overdueTask, err := NewInvoiceOverdueSweepTask(payload)
	if err == nil {
		if _, err = d.client.EnqueueContext(ctx, overdueTask, asynq.Queue(d.queue)); err != nil {
			d.log.Warn("enqueue overdue sweep failed", "error", err)
		}
	}

	expiryTask, err := NewInviteExpirySweepTask(payload)
	if err == nil {
		if _, err = d.client.EnqueueContext(ctx, expiryTask, asynq.Queue(d.queue)); err != nil {
			d.log.Warn("enqueue invite expiry sweep failed", "error", err)
		}
	}
}
