// Package dashboard aggregates the headline counters shown on the back
// office landing page.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"muniadmin/internal/directory"
	dErrors "muniadmin/pkg/domain-errors"
)

const statsCacheKey = "muniadmin:dashboard:stats"

type Stats struct {
	TotalEmployees      int `json:"totalEmployees"`
	ActiveEmployees     int `json:"activeEmployees"`
	PendingRequests     int `json:"pendingRequests"`
	TotalDepartments    int `json:"totalDepartments"`
	TotalMunicipalities int `json:"totalMunicipalities"`
}

// Cache is the tiny slice of Redis the dashboard needs. Implementations
// return ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type EmployeeCounter interface {
	CountByStatus(ctx context.Context, status directory.EmployeeStatus) (int, error)
}

type DepartmentLister interface {
	List(ctx context.Context) ([]directory.Department, error)
}

type MunicipalityLister interface {
	List(ctx context.Context) ([]directory.Municipality, error)
}

// Service computes dashboard stats with a short-lived cache in front. The
// cache is strictly an accelerator: any cache failure falls through to the
// stores and is logged, never surfaced.
type Service struct {
	employees      EmployeeCounter
	departments    DepartmentLister
	municipalities MunicipalityLister
	cache          Cache
	ttl            time.Duration
	logger         *slog.Logger
}

func NewService(
	employees EmployeeCounter,
	departments DepartmentLister,
	municipalities MunicipalityLister,
	cache Cache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		employees:      employees,
		departments:    departments,
		municipalities: municipalities,
		cache:          cache,
		ttl:            ttl,
		logger:         logger,
	}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return Stats{}, err
	}

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *Service) compute(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.TotalEmployees, err = s.employees.CountByStatus(ctx, ""); err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeInternal, "count employees", err)
	}
	if stats.ActiveEmployees, err = s.employees.CountByStatus(ctx, directory.StatusActive); err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeInternal, "count active employees", err)
	}
	if stats.PendingRequests, err = s.employees.CountByStatus(ctx, directory.StatusPending); err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeInternal, "count pending requests", err)
	}

	departments, err := s.departments.List(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeInternal, "list departments", err)
	}
	stats.TotalDepartments = len(departments)

	municipalities, err := s.municipalities.List(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeInternal, "list municipalities", err)
	}
	stats.TotalMunicipalities = len(municipalities)

	return stats, nil
}

func (s *Service) fromCache(ctx context.Context) (Stats, bool) {
	if s.cache == nil {
		return Stats{}, false
	}

	raw, err := s.cache.Get(ctx, statsCacheKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WarnContext(ctx, "dashboard cache read failed", "error", err)
		}
		return Stats{}, false
	}

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache entry corrupt", "error", err)
		return Stats{}, false
	}
	return stats, true
}

func (s *Service) toCache(ctx context.Context, stats Stats) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
	}
}
