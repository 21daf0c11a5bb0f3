// Package memory provides an in-memory audit store for tests and local
// development. It intentionally favors clarity over performance.
package memory

import (
	"context"
	"sort"
	"sync"

	"muniadmin/internal/audit"
)

type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records []audit.Record
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Append(_ context.Context, record audit.Record) (audit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID
	s.nextID++
	s.records = append(s.records, record)
	return record, nil
}

func (s *Store) List(_ context.Context, q audit.Query, limit, offset int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(q)
	// Newest first; id breaks ties for records sharing a timestamp.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]audit.Record, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *Store) Count(_ context.Context, q audit.Query) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(q)), nil
}

// All returns every stored record in insertion order. Test helper.
func (s *Store) All() []audit.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) match(q audit.Query) []audit.Record {
	var matched []audit.Record
	for _, r := range s.records {
		if q.UserID != 0 && r.UserID != q.UserID {
			continue
		}
		if q.ActionType != "" && r.ActionType != q.ActionType {
			continue
		}
		if q.EntityType != "" && r.EntityType != q.EntityType {
			continue
		}
		if q.EntityID != "" && (r.EntityID == nil || *r.EntityID != q.EntityID) {
			continue
		}
		if q.StartDate != nil && r.Timestamp.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && r.Timestamp.After(*q.EndDate) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}
