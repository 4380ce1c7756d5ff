package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the journal operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordRelay inserts a relay attempt. A zero CreatedAt is set to now.
	RecordRelay(ctx context.Context, rec *RelayRecord) error

	// RecordReport inserts an escalated report. A zero CreatedAt is set to now.
	RecordReport(ctx context.Context, rec *ReportRecord) error

	// CountRelaysSince counts relay attempts at or after since, by status.
	CountRelaysSince(ctx context.Context, since time.Time) (map[string]int, error)

	// StatsSince aggregates relays and reports at or after since.
	StatsSince(ctx context.Context, since time.Time) (*Stats, error)

	// DeleteRecordsBefore removes journal rows older than before from both
	// tables in one transaction and returns how many rows were removed.
	DeleteRecordsBefore(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    time.Now,
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordRelay(ctx context.Context, rec *RelayRecord) error {
	if rec == nil {
		return errors.New("cannot record nil relay")
	}
	if rec.RelayID == "" || rec.Platform == "" || rec.Kind == "" {
		return errors.New("relay record must have relay_id, platform and kind")
	}
	if err := validStatus(rec.Status, StatusOK, StatusFailed, StatusApology); err != nil {
		return err
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = s.now().Unix()
	}

	query := `
        INSERT INTO relay_log (relay_id, platform, chat_id, message_id, user_id, kind, status, error, created_at)
        VALUES (:relay_id, :platform, :chat_id, :message_id, :user_id, :kind, :status, :error, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording relay", "relay_id", rec.RelayID, "error", err)
		return fmt.Errorf("failed to record relay %s: %w", rec.RelayID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}

	s.logger.DebugContext(ctx, "Relay recorded", "relay_id", rec.RelayID, "status", rec.Status, "kind", rec.Kind)
	return nil
}

func (s *sqlxStore) RecordReport(ctx context.Context, rec *ReportRecord) error {
	if rec == nil {
		return errors.New("cannot record nil report")
	}
	if rec.Platform == "" {
		return errors.New("report record must have a platform")
	}
	if err := validStatus(rec.Status, StatusOK, StatusFailed); err != nil {
		return err
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = s.now().Unix()
	}

	query := `
        INSERT INTO report_log (platform, chat_id, user_id, status, error, created_at)
        VALUES (:platform, :chat_id, :user_id, :status, :error, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording report", "platform", rec.Platform, "chat_id", rec.ChatID, "error", err)
		return fmt.Errorf("failed to record report: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (s *sqlxStore) countByStatus(ctx context.Context, table string, since time.Time) (map[string]int, error) {
	var rows []statusCount
	// table is one of two constants below, never user input.
	query := fmt.Sprintf(`SELECT status, COUNT(*) AS count FROM %s WHERE created_at >= ? GROUP BY status;`, table)
	if err := s.db.SelectContext(ctx, &rows, query, since.Unix()); err != nil {
		return nil, fmt.Errorf("failed to count %s rows: %w", table, err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *sqlxStore) CountRelaysSince(ctx context.Context, since time.Time) (map[string]int, error) {
	return s.countByStatus(ctx, "relay_log", since)
}

func (s *sqlxStore) StatsSince(ctx context.Context, since time.Time) (*Stats, error) {
	relays, err := s.countByStatus(ctx, "relay_log", since)
	if err != nil {
		return nil, err
	}
	reports, err := s.countByStatus(ctx, "report_log", since)
	if err != nil {
		return nil, err
	}
	return &Stats{Relays: relays, Reports: reports}, nil
}

func (s *sqlxStore) DeleteRecordsBefore(ctx context.Context, before time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
		}
	}()

	var total int64
	for _, query := range []string{
		`DELETE FROM relay_log WHERE created_at < ?;`,
		`DELETE FROM report_log WHERE created_at < ?;`,
	} {
		result, err := tx.ExecContext(ctx, query, before.Unix())
		if err != nil {
			return 0, fmt.Errorf("failed to delete old journal rows: %w", err)
		}
		n, err := result.RowsAffected()
		if err == nil {
			total += n
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit journal retention", "error", err)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Deleted old journal rows", "count", total, "before", before.UTC().Format(time.RFC3339))
	return total, nil
}

// RunSQLMaintenance refreshes planner statistics and executes VACUUM.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (ANALYZE, VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.WarnContext(ctx, "ANALYZE failed", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}
	return nil
}

func validStatus(status string, allowed ...string) error {
	for _, a := range allowed {
		if status == a {
			return nil
		}
	}
	return fmt.Errorf("invalid journal status %q", status)
}
