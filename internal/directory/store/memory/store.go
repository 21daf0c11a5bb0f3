// Package memory backs the directory stores for tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"muniadmin/internal/directory"
	"muniadmin/pkg/platform/sentinel"
)

// DepartmentStore and MunicipalityStore share the same shape; they are kept
// separate so each can drift independently with its entity.

type DepartmentStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]directory.Department
}

func NewDepartmentStore() *DepartmentStore {
	return &DepartmentStore{items: make(map[int64]directory.Department)}
}

func (s *DepartmentStore) Create(_ context.Context, d directory.Department) (directory.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if strings.EqualFold(existing.Name, d.Name) {
			return directory.Department{}, sentinel.ErrConflict
		}
	}

	s.nextID++
	d.ID = s.nextID
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	s.items[d.ID] = d
	return d, nil
}

func (s *DepartmentStore) GetByID(_ context.Context, id int64) (directory.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.items[id]
	if !ok {
		return directory.Department{}, sentinel.ErrNotFound
	}
	return d, nil
}

func (s *DepartmentStore) List(_ context.Context) ([]directory.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]directory.Department, 0, len(s.items))
	for _, d := range s.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DepartmentStore) Update(_ context.Context, d directory.Department) (directory.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[d.ID]
	if !ok {
		return directory.Department{}, sentinel.ErrNotFound
	}
	for id, existing := range s.items {
		if id != d.ID && strings.EqualFold(existing.Name, d.Name) {
			return directory.Department{}, sentinel.ErrConflict
		}
	}

	d.CreatedAt = current.CreatedAt
	d.UpdatedAt = time.Now()
	s.items[d.ID] = d
	return d, nil
}

func (s *DepartmentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type MunicipalityStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]directory.Municipality
}

func NewMunicipalityStore() *MunicipalityStore {
	return &MunicipalityStore{items: make(map[int64]directory.Municipality)}
}

func (s *MunicipalityStore) Create(_ context.Context, m directory.Municipality) (directory.Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if strings.EqualFold(existing.Name, m.Name) {
			return directory.Municipality{}, sentinel.ErrConflict
		}
	}

	s.nextID++
	m.ID = s.nextID
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.items[m.ID] = m
	return m, nil
}

func (s *MunicipalityStore) GetByID(_ context.Context, id int64) (directory.Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[id]
	if !ok {
		return directory.Municipality{}, sentinel.ErrNotFound
	}
	return m, nil
}

func (s *MunicipalityStore) List(_ context.Context) ([]directory.Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]directory.Municipality, 0, len(s.items))
	for _, m := range s.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MunicipalityStore) Update(_ context.Context, m directory.Municipality) (directory.Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[m.ID]
	if !ok {
		return directory.Municipality{}, sentinel.ErrNotFound
	}
	for id, existing := range s.items {
		if id != m.ID && strings.EqualFold(existing.Name, m.Name) {
			return directory.Municipality{}, sentinel.ErrConflict
		}
	}

	m.CreatedAt = current.CreatedAt
	m.UpdatedAt = time.Now()
	s.items[m.ID] = m
	return m, nil
}

func (s *MunicipalityStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type EmployeeStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]directory.Employee
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{items: make(map[int64]directory.Employee)}
}

func (s *EmployeeStore) Create(_ context.Context, e directory.Employee) (directory.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.items[e.ID] = e
	return e, nil
}

func (s *EmployeeStore) GetByID(_ context.Context, id int64) (directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		return directory.Employee{}, sentinel.ErrNotFound
	}
	return e, nil
}

func (s *EmployeeStore) List(_ context.Context) ([]directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]directory.Employee, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *EmployeeStore) Update(_ context.Context, e directory.Employee) (directory.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[e.ID]
	if !ok {
		return directory.Employee{}, sentinel.ErrNotFound
	}

	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = time.Now()
	s.items[e.ID] = e
	return e, nil
}

func (s *EmployeeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *EmployeeStore) CountByStatus(_ context.Context, status directory.EmployeeStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status == "" {
		return len(s.items), nil
	}
	count := 0
	for _, e := range s.items {
		if e.Status == status {
			count++
		}
	}
	return count, nil
}
