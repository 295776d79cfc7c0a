package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driven"
)

// Ensure SuggestionStore implements the interface.
var _ driven.SuggestionStore = (*SuggestionStore)(nil)

type suggestionKey struct {
	term string
	typ  domain.SuggestionType
}

// SuggestionStore is an in-memory implementation of
// driven.SuggestionStore.
type SuggestionStore struct {
	mu      sync.RWMutex
	entries map[suggestionKey]domain.SuggestionEntry
}

// NewSuggestionStore creates a new in-memory suggestion store.
func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{
		entries: make(map[suggestionKey]domain.SuggestionEntry),
	}
}

// Record upserts entries keyed by (term, type). Terms are stored
// lowercased; existing keys gain the entry's frequency.
func (s *SuggestionStore) Record(_ context.Context, entries []domain.SuggestionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		term := strings.ToLower(strings.TrimSpace(entry.Term))
		if term == "" {
			continue
		}
		gain := entry.Frequency
		if gain < 1 {
			gain = 1
		}

		key := suggestionKey{term: term, typ: entry.Type}
		if existing, ok := s.entries[key]; ok {
			existing.Frequency += gain
			existing.LastUsed = entry.LastUsed
			if entry.Display != "" {
				existing.Display = entry.Display
			}
			s.entries[key] = existing
			continue
		}

		s.entries[key] = domain.SuggestionEntry{
			Term:      term,
			Display:   entry.Display,
			Type:      entry.Type,
			Frequency: gain,
			LastUsed:  entry.LastUsed,
		}
	}
	return nil
}

// Prefix returns entries whose term starts with the prefix, highest
// frequency first. An empty types slice matches every type.
func (s *SuggestionStore) Prefix(_ context.Context, prefix string, types []domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	prefix = strings.ToLower(prefix)

	s.mu.RLock()
	matched := make([]domain.SuggestionEntry, 0)
	for key, entry := range s.entries {
		if !strings.HasPrefix(key.term, prefix) {
			continue
		}
		if !matchesType(key.typ, types) {
			continue
		}
		matched = append(matched, entry)
	}
	s.mu.RUnlock()

	sortByFrequency(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// TopByType returns the most frequent entries of one type.
func (s *SuggestionStore) TopByType(_ context.Context, t domain.SuggestionType, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	matched := make([]domain.SuggestionEntry, 0)
	for key, entry := range s.entries {
		if key.typ == t {
			matched = append(matched, entry)
		}
	}
	s.mu.RUnlock()

	sortByFrequency(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Candidates returns the most frequent entries across all types.
func (s *SuggestionStore) Candidates(_ context.Context, limit int) ([]domain.SuggestionEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	matched := make([]domain.SuggestionEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		matched = append(matched, entry)
	}
	s.mu.RUnlock()

	sortByFrequency(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of catalog entries.
func (s *SuggestionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes every catalog entry.
func (s *SuggestionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[suggestionKey]domain.SuggestionEntry)
	return nil
}

func matchesType(t domain.SuggestionType, types []domain.SuggestionType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// sortByFrequency orders entries highest frequency first, breaking
// ties alphabetically so results are deterministic.
func sortByFrequency(entries []domain.SuggestionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Term < entries[j].Term
	})
}
