package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tripledger/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the synced entities and serves the query API.
// Writes are id-keyed upserts: a re-sync of unchanged source data is a no-op,
// while a changed row with the same content-derived id is rewritten in place.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveTrips implements sync.Store.
func (r *SQLiteRepository) SaveTrips(ctx context.Context, trips []core.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trips (id, name, start_date, end_date, comment)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				comment = excluded.comment`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, t := range trips {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.StartDate.String(), t.EndDate.String(), t.Comment); err != nil {
				return fmt.Errorf("save trip %s: %w", t.ID, err)
			}
		}
		slog.DebugContext(ctx, "Trips saved", "count", len(trips))
		return nil
	})
}

// SavePurchases implements sync.Store.
func (r *SQLiteRepository) SavePurchases(ctx context.Context, purchases []core.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO purchases (id, date, amount, category, description, comment, trip_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				date = excluded.date,
				amount = excluded.amount,
				category = excluded.category,
				description = excluded.description,
				comment = excluded.comment,
				trip_id = excluded.trip_id`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range purchases {
			if _, err := stmt.ExecContext(ctx, p.ID, p.Date.String(), p.Amount.String(),
				p.Category, p.Description, p.Comment, p.TripID); err != nil {
				return fmt.Errorf("save purchase %s: %w", p.ID, err)
			}
		}
		slog.DebugContext(ctx, "Purchases saved", "count", len(purchases))
		return nil
	})
}

// SaveTotals implements sync.Store.
func (r *SQLiteRepository) SaveTotals(ctx context.Context, totals []core.Total) error {
	if len(totals) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO totals (id, date, type, amount, progress, budgeted, trip_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				date = excluded.date,
				type = excluded.type,
				amount = excluded.amount,
				progress = excluded.progress,
				budgeted = excluded.budgeted,
				trip_id = excluded.trip_id`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, t := range totals {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Date.String(), t.Type, t.Amount.String(),
				t.Progress.String(), t.Budgeted.String(), t.TripID); err != nil {
				return fmt.Errorf("save total %s: %w", t.ID, err)
			}
		}
		slog.DebugContext(ctx, "Totals saved", "count", len(totals))
		return nil
	})
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListPurchases returns purchases matching the filter, ordered by date.
func (r *SQLiteRepository) ListPurchases(ctx context.Context, f PurchaseFilter) ([]core.Purchase, error) {
	w := purchaseWhere(f)
	query := "SELECT id, date, amount, category, description, comment, trip_id FROM purchases" +
		w.sql() + " ORDER BY date, id"
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []core.Purchase
	for rows.Next() {
		var (
			p            core.Purchase
			date, amount string
		)
		if err := rows.Scan(&p.ID, &date, &amount, &p.Category, &p.Description, &p.Comment, &p.TripID); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if p.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("stored amount %q: %w", amount, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListTrips returns trips matching the filter, ordered by start date.
func (r *SQLiteRepository) ListTrips(ctx context.Context, f TripFilter) ([]core.Trip, error) {
	w := tripWhere(f)
	query := "SELECT id, name, start_date, end_date, comment FROM trips" +
		w.sql() + " ORDER BY start_date, id"
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var out []core.Trip
	for rows.Next() {
		var (
			t          core.Trip
			start, end string
		)
		if err := rows.Scan(&t.ID, &t.Name, &start, &end, &t.Comment); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if t.StartDate, err = parseStoredDate(start); err != nil {
			return nil, err
		}
		if t.EndDate, err = parseStoredDate(end); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTotals returns every totals row, ordered by date.
func (r *SQLiteRepository) ListTotals(ctx context.Context) ([]core.Total, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, type, amount, progress, budgeted, trip_id FROM totals ORDER BY date, id")
	if err != nil {
		return nil, fmt.Errorf("list totals: %w", err)
	}
	defer rows.Close()

	var out []core.Total
	for rows.Next() {
		var (
			t                               core.Total
			date, amount, progress, budgeted string
		)
		if err := rows.Scan(&t.ID, &date, &t.Type, &amount, &progress, &budgeted, &t.TripID); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		if t.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("stored amount %q: %w", amount, err)
		}
		if t.Progress, err = decimal.NewFromString(progress); err != nil {
			return nil, fmt.Errorf("stored progress %q: %w", progress, err)
		}
		if t.Budgeted, err = decimal.NewFromString(budgeted); err != nil {
			return nil, fmt.Errorf("stored budgeted %q: %w", budgeted, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func parseStoredDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}
