package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
)

// ==================== Check History ====================

// RecordRun appends a check run to the history.
func (s *Store) RecordRun(ctx context.Context, run *domain.CheckRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_runs (id, domain, triggered_by, started_at, ended_at, matched_count, total_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Domain, run.TriggeredBy.String(),
		formatTime(run.StartedAt), formatTime(run.EndedAt),
		run.MatchedCount, run.TotalCount, nullString(run.Error))
	if err != nil {
		return fmt.Errorf("recording check run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, domainName string, limit int) ([]domain.CheckRun, error) {
	query := `
		SELECT id, domain, triggered_by, started_at, ended_at, matched_count, total_count, error
		FROM check_runs`
	args := []any{}
	if domainName != "" {
		query += " WHERE domain = ?"
		args = append(args, domainName)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying check runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CheckRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanCheckRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating check runs: %w", err)
	}

	return runs, nil
}

// PruneRuns keeps only the most recent 'keep' runs.
func (s *Store) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM check_runs
		WHERE id NOT IN (
			SELECT id FROM check_runs ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning check runs: %w", err)
	}
	return nil
}

func scanCheckRun(rows *sql.Rows) (*domain.CheckRun, error) {
	var run domain.CheckRun
	var trigger, startedAt, endedAt string
	var errText sql.NullString

	if err := rows.Scan(&run.ID, &run.Domain, &trigger, &startedAt, &endedAt,
		&run.MatchedCount, &run.TotalCount, &errText); err != nil {
		return nil, fmt.Errorf("scanning check run: %w", err)
	}

	run.TriggeredBy = domain.Trigger(trigger)
	run.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
	run.EndedAt = parseNullableTime(sql.NullString{String: endedAt, Valid: true})
	if errText.Valid {
		run.Error = errText.String
	}
	return &run, nil
}
