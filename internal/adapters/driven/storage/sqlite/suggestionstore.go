package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
)

// suggestionStore implements driven.SuggestionStore.
type suggestionStore struct {
	store *Store
}

var _ driven.SuggestionStore = (*suggestionStore)(nil)

// Record upserts entries keyed by (term, type). Terms are stored
// lowercased; existing keys gain the entry's frequency. A blank display
// never overwrites a stored one.
func (s *suggestionStore) Record(ctx context.Context, entries []domain.SuggestionEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO suggestions (term, display, type, frequency, last_used)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(term, type) DO UPDATE SET
			frequency = frequency + excluded.frequency,
			last_used = excluded.last_used,
			display = CASE WHEN excluded.display <> '' THEN excluded.display ELSE display END
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		term := strings.ToLower(strings.TrimSpace(entry.Term))
		if term == "" {
			continue
		}
		gain := entry.Frequency
		if gain < 1 {
			gain = 1
		}

		if _, err := stmt.ExecContext(ctx, term, entry.Display, string(entry.Type),
			gain, formatNullableTime(entry.LastUsed)); err != nil {
			return fmt.Errorf("recording suggestion %q: %w", term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Prefix returns entries whose term starts with the lowercased prefix,
// highest frequency first. An empty types slice matches every type.
func (s *suggestionStore) Prefix(ctx context.Context, prefix string, types []domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT term, display, type, frequency, last_used
		FROM suggestions
		WHERE term LIKE ? ESCAPE '\'
	`
	args := []interface{}{escapeLike(strings.ToLower(prefix)) + "%"}

	if len(types) > 0 {
		query += " AND type IN (?" + strings.Repeat(", ?", len(types)-1) + ")"
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += " ORDER BY frequency DESC, term LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions by prefix: %w", err)
	}
	defer rows.Close()

	return scanSuggestionRows(rows)
}

// TopByType returns the most frequent entries of one type.
func (s *suggestionStore) TopByType(ctx context.Context, t domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT term, display, type, frequency, last_used
		FROM suggestions
		WHERE type = ?
		ORDER BY frequency DESC, term
		LIMIT ?
	`, string(t), limit)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions by type: %w", err)
	}
	defer rows.Close()

	return scanSuggestionRows(rows)
}

// Candidates returns the most frequent entries across all types.
func (s *suggestionStore) Candidates(ctx context.Context, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT term, display, type, frequency, last_used
		FROM suggestions
		ORDER BY frequency DESC, term
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying suggestion candidates: %w", err)
	}
	defer rows.Close()

	return scanSuggestionRows(rows)
}

// Count returns the number of catalog entries.
func (s *suggestionStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM suggestions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting suggestions: %w", err)
	}
	return count, nil
}

// Clear removes every catalog entry.
func (s *suggestionStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM suggestions")
	if err != nil {
		return fmt.Errorf("clearing suggestions: %w", err)
	}
	return nil
}

// scanSuggestionRows scans multiple suggestion rows.
func scanSuggestionRows(rows *sql.Rows) ([]domain.SuggestionEntry, error) {
	var entries []domain.SuggestionEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.SuggestionEntry
		var typ string
		var lastUsed sql.NullString
		if err := rows.Scan(&entry.Term, &entry.Display, &typ, &entry.Frequency, &lastUsed); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		entry.Type = domain.SuggestionType(typ)
		entry.LastUsed = parseNullableTime(lastUsed)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suggestions: %w", err)
	}

	return entries, nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
