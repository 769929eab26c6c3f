package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"tripledger/internal/core"
	"tripledger/internal/sheets"
)

// Store is the persistence sink the pipeline writes to. Implementations must
// make batch writes converge for identical records so re-syncs stay
// idempotent.
type Store interface {
	SaveTrips(ctx context.Context, trips []core.Trip) error
	SavePurchases(ctx context.Context, purchases []core.Purchase) error
	SaveTotals(ctx context.Context, totals []core.Total) error
}

// State names the phases a sync run moves through. A run either reaches
// StateDone or stops in StateFailed; there is no partial rollback of
// collections persisted before a failure.
type State string

const (
	StateIdle              State = "idle"
	StateRangesResolved    State = "ranges_resolved"
	StateSpendingExtracted State = "spending_extracted"
	StateTripsInferred     State = "trips_inferred"
	StateReconciled        State = "reconciled"
	StatePersisted         State = "persisted"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Syncer runs the synchronization pipeline end to end for one (year, month)
// window. It is synchronous and fetches ranges one at a time; a sync is a
// manually triggered batch job, not a live service.
type Syncer struct {
	opener sheets.SourceOpener
	store  Store
}

func NewSyncer(opener sheets.SourceOpener, store Store) *Syncer {
	return &Syncer{opener: opener, store: store}
}

// Sync imports one year of sheet data, or a single month when month is
// non-empty. Validation failures and parse errors abort the run; collections
// already persisted stay in place.
func (s *Syncer) Sync(ctx context.Context, year, month string) (core.SyncReport, error) {
	report, state, err := s.run(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Sync failed", "year", year, "month", month,
			"state", string(state), "error", err)
		return core.SyncReport{}, fmt.Errorf("sync %s: %w", describeWindow(year, month), err)
	}
	slog.InfoContext(ctx, "Sync completed", "year", year, "month", month,
		"trips", report.Trips,
		"regular_purchases", report.RegularPurchases,
		"trip_purchases", report.TripPurchases,
		"totals", report.Totals,
		"trip_totals", report.TripTotals,
		"total_purchases", report.TotalPurchases)
	return report, nil
}

func (s *Syncer) run(ctx context.Context, year, month string) (core.SyncReport, State, error) {
	state := StateIdle

	startMonth, endMonth := 1, 12
	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			return core.SyncReport{}, StateFailed, fmt.Errorf("invalid month %q: %w", month, err)
		}
		startMonth, endMonth = m, m
	}
	// Bounds are checked before any network work.
	if err := validateMonthWindow(startMonth, endMonth); err != nil {
		return core.SyncReport{}, StateFailed, err
	}

	src, err := s.opener.Open(ctx, year)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}

	sheetNames, err := src.SheetNames(ctx)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	ranges, err := ResolveRanges(sheetNames, startMonth, endMonth)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	state = StateRangesResolved
	slog.DebugContext(ctx, "Resolved sheet ranges",
		"spending", len(ranges.Spending), "totals", len(ranges.Totals),
		"trip_spending", len(ranges.TripSpending), "trip_totals", len(ranges.TripTotals))

	spendingRows, err := collectSpendingRows(ctx, src, ranges.Spending)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	state = StateSpendingExtracted

	purchases := regularPurchases(spendingRows)
	trips, err := InferTrips(spendingRows)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	state = StateTripsInferred

	totals, err := buildTotals(ctx, src, ranges.Totals)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	tripPurchases, err := linkTripPurchases(ctx, src, ranges.TripSpending, trips)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	tripTotals, err := buildTripTotals(ctx, src, ranges.TripTotals, trips)
	if err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	state = StateReconciled

	// Trips go first so purchase-to-trip joins never observe a dangling
	// reference once the sync returns.
	if err := s.store.SaveTrips(ctx, trips); err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	if err := s.store.SavePurchases(ctx, purchases); err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	if err := s.store.SavePurchases(ctx, tripPurchases); err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	if err := s.store.SaveTotals(ctx, totals); err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	if err := s.store.SaveTotals(ctx, tripTotals); err != nil {
		return core.SyncReport{}, StateFailed, err
	}
	state = StatePersisted

	report := core.SyncReport{
		Trips:            len(trips),
		RegularPurchases: len(purchases),
		TripPurchases:    len(tripPurchases),
		Totals:           len(totals),
		TripTotals:       len(tripTotals),
		TotalPurchases:   len(purchases) + len(tripPurchases),
	}
	state = StateDone
	return report, state, nil
}

func describeWindow(year, month string) string {
	if month == "" {
		return "year " + year
	}
	return month + "/" + year
}
