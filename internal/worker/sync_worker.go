package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tripledger/internal/amqp"
	"tripledger/internal/core"
)

// SyncRunner runs one synchronization for a (year, month) window.
type SyncRunner interface {
	Sync(ctx context.Context, year, month string) (core.SyncReport, error)
}

// SyncWorker drains queued sync requests and runs the pipeline for each. A
// request that fails is returned to the queue by the consumer, so the handler
// only reports the error.
type SyncWorker struct {
	runner     SyncRunner
	runTimeout time.Duration
}

func NewSyncWorker(runner SyncRunner, runTimeout time.Duration) *SyncWorker {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &SyncWorker{runner: runner, runTimeout: runTimeout}
}

// HandleSyncRequest processes a single queued sync request.
func (w *SyncWorker) HandleSyncRequest(ctx context.Context, msg *amqp.SyncRequestMessage) error {
	if msg.Year == "" {
		return fmt.Errorf("sync request missing year")
	}

	slog.InfoContext(ctx, "Processing sync request",
		"year", msg.Year,
		"month", msg.Month,
		"requested_at", msg.RequestedAt.Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(ctx, w.runTimeout)
	defer cancel()

	started := time.Now()
	report, err := w.runner.Sync(ctx, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("run sync: %w", err)
	}

	slog.InfoContext(ctx, "Sync request completed",
		"year", msg.Year,
		"month", msg.Month,
		"duration_ms", time.Since(started).Milliseconds(),
		"trips", report.Trips,
		"total_purchases", report.TotalPurchases)
	return nil
}
