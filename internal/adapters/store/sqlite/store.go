// Package sqlite implements ports.QuoteStore on an embedded SQLite
// database. It is the offline alternative to the hosted record store:
// single-office installs run entirely against a local file while keeping
// the exact store contract, including server-side quote number
// allocation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// StoreConfig contains configuration for the local store.
type StoreConfig struct {
	// Path is the database file path. Required.
	Path string

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a local ports.QuoteStore.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the database, applies pragmas and pending migrations, and
// validates connectivity.
func Open(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite store: path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite.Store")),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports store connectivity. Used by the health registry.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Upsert persists a snapshot. A snapshot without a number is inserted
// under a freshly allocated Q-<n> number; the allocation and the insert
// share one transaction so a crash cannot burn a number without a row.
func (s *Store) Upsert(ctx context.Context, snapshot domain.QuoteDraft) (string, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encoding quote payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	number := snapshot.Number
	if number == "" {
		number, err = s.allocateNumber(ctx, tx)
		if err != nil {
			return "", err
		}

		// The stored payload carries the allocated identity so a later
		// Get returns a complete record.
		snapshot.Number = number

		payload, err = json.Marshal(snapshot)
		if err != nil {
			return "", fmt.Errorf("encoding quote payload: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quotes (number, customer_name, status, total, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (number) DO UPDATE SET
			customer_name = excluded.customer_name,
			status        = excluded.status,
			total         = excluded.total,
			payload       = excluded.payload,
			updated_at    = excluded.updated_at`,
		number,
		snapshot.Customer.Name,
		string(snapshot.Status),
		snapshot.GrandTotal().StringFixed(2),
		string(payload),
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("upserting quote %s: %w", number, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "quote persisted locally", slog.String("quote_number", number))

	return number, nil
}

func (s *Store) allocateNumber(ctx context.Context, tx *sql.Tx) (string, error) {
	var value int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE quote_counter SET value = value + 1 WHERE id = 1 RETURNING value - 1`,
	).Scan(&value); err != nil {
		return "", fmt.Errorf("allocating quote number: %w", err)
	}

	return fmt.Sprintf("Q-%d", value), nil
}

// Get retrieves a persisted quote.
func (s *Store) Get(ctx context.Context, number string) (*domain.QuoteDraft, error) {
	var payload string

	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM quotes WHERE number = ?`, number,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", number)
	}

	if err != nil {
		return nil, fmt.Errorf("querying quote %s: %w", number, err)
	}

	var draft domain.QuoteDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("decoding quote payload: %w", err)
	}

	draft.Number = number

	return &draft, nil
}

// Delete removes a persisted quote.
func (s *Store) Delete(ctx context.Context, number string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE number = ?`, number)
	if err != nil {
		return fmt.Errorf("deleting quote %s: %w", number, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting quote %s: %w", number, err)
	}

	if affected == 0 {
		return domain.NewNotFoundError("quote", number)
	}

	return nil
}

// List returns quote summaries, newest first. The stored total is
// returned as-is; listings never recompute pricing.
func (s *Store) List(ctx context.Context, filter ports.QuoteFilter) ([]ports.QuoteSummary, error) {
	query := `SELECT number, customer_name, status, total, updated_at FROM quotes`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}

	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []ports.QuoteSummary

	for rows.Next() {
		var (
			summary   ports.QuoteSummary
			status    string
			total     string
			updatedAt string
		)

		if err := rows.Scan(&summary.Number, &summary.CustomerName, &status, &total, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote row: %w", err)
		}

		summary.Status = domain.Status(status)

		if summary.Total, err = parseDecimal(total); err != nil {
			return nil, fmt.Errorf("parsing stored total for %s: %w", summary.Number, err)
		}

		if summary.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("parsing timestamp for %s: %w", summary.Number, err)
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return summaries, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
