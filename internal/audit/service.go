package audit

import (
	"context"
	"fmt"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// Service answers filtered, paginated queries over the audit trail. Unlike
// the recorder, read failures here are surfaced to the caller: there is no
// business operation to protect on a direct review request.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the requested page of matching records, newest first. Page
// numbers are 1-based; out-of-range input is clamped rather than rejected.
func (s *Service) List(ctx context.Context, q Query, page PageRequest) (*Page, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = defaultPageLimit
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}

	total, err := s.store.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count audit records: %w", err)
	}

	offset := (page.Page - 1) * page.Limit
	records, err := s.store.List(ctx, q, page.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}

	return &Page{
		Logs: records,
		Pagination: Pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: (total + page.Limit - 1) / page.Limit,
		},
	}, nil
}
