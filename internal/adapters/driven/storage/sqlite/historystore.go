package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record appends one executed search, assigning an ID when missing.
func (s *historyStore) Record(ctx context.Context, rec domain.QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_history (id, query, result_count, duration_ms, executed_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Query, rec.ResultCount, rec.Duration.Milliseconds(),
		rec.ExecutedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// Recent returns records newest first. Ties on the second-resolution
// timestamp fall back to insertion order.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query, result_count, duration_ms, executed_at
		FROM search_history
		ORDER BY executed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	var records []domain.QueryRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.QueryRecord
		var durationMS int64
		var executedAt string
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.ResultCount, &durationMS, &executedAt); err != nil {
			return nil, fmt.Errorf("scanning search record: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, executedAt); err == nil {
			rec.ExecutedAt = t
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search history: %w", err)
	}

	return records, nil
}

// Clear removes all history.
func (s *historyStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM search_history")
	if err != nil {
		return fmt.Errorf("clearing search history: %w", err)
	}
	return nil
}
