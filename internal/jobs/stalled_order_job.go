// Package jobs contains the scheduled background jobs of the service.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// defaultStalledThreshold is how long an order may sit in a non-terminal
// status without lifecycle activity before the monitor reports it.
const defaultStalledThreshold = 30 * time.Minute

// StalledOrderJob periodically scans for orders stuck mid-lifecycle and
// logs them. Pure monitoring: the job never transitions orders itself.
type StalledOrderJob struct {
	handler   queries.GetStalledOrdersQueryHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStalledOrderJob creates a job that reports stalled orders every minute.
// A non-positive threshold falls back to the default.
func NewStalledOrderJob(
	handler queries.GetStalledOrdersQueryHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *StalledOrderJob {
	if threshold <= 0 {
		threshold = defaultStalledThreshold
	}

	return &StalledOrderJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(),
		logger:    logger.With("component", "stalled_order_job"),
	}
}

// Start begins the stalled order scan, running once per minute.
func (j *StalledOrderJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		query, err := queries.NewGetStalledOrdersQuery(j.threshold)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stalled order scan misconfigured", "error", err)
			return
		}

		stalled, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stalled order scan failed", "error", err)
			return
		}

		for _, o := range stalled {
			j.logger.WarnContext(ctx, "Order is stalled",
				"order_id", o.OrderID.String(),
				"tenant_id", o.TenantID.String(),
				"status", o.Status.String(),
				"last_change_at", o.LastChangeAt,
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stalled order job started (running every minute)")
	return nil
}

// Stop stops the stalled order scan.
func (j *StalledOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stalled order job stopped")
}
