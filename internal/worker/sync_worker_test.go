package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripledger/internal/amqp"
	"tripledger/internal/core"
)

type stubRunner struct {
	year, month string
	report      core.SyncReport
	err         error
	calls       int
}

func (s *stubRunner) Sync(ctx context.Context, year, month string) (core.SyncReport, error) {
	s.calls++
	s.year, s.month = year, month
	return s.report, s.err
}

func TestHandleSyncRequest(t *testing.T) {
	runner := &stubRunner{report: core.SyncReport{Trips: 1, TotalPurchases: 4}}
	w := NewSyncWorker(runner, time.Minute)

	msg := amqp.NewSyncRequestMessage("2024", "6")
	if err := w.HandleSyncRequest(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if runner.calls != 1 || runner.year != "2024" || runner.month != "6" {
		t.Fatalf("runner called with %s/%s (%d calls)", runner.year, runner.month, runner.calls)
	}
}

func TestHandleSyncRequest_MissingYear(t *testing.T) {
	runner := &stubRunner{}
	w := NewSyncWorker(runner, time.Minute)

	err := w.HandleSyncRequest(context.Background(), &amqp.SyncRequestMessage{Month: "6"})
	if err == nil {
		t.Fatal("expected error for missing year")
	}
	if runner.calls != 0 {
		t.Fatalf("runner should not run, got %d calls", runner.calls)
	}
}

func TestHandleSyncRequest_RunnerError(t *testing.T) {
	runner := &stubRunner{err: errors.New("spreadsheet not found")}
	w := NewSyncWorker(runner, time.Minute)

	err := w.HandleSyncRequest(context.Background(), amqp.NewSyncRequestMessage("2024", ""))
	if err == nil {
		t.Fatal("expected runner error to propagate")
	}
}
