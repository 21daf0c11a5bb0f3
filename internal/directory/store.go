package directory

import "context"

// DepartmentStore and MunicipalityStore persist the name-only entities.
// Implementations return sentinel.ErrNotFound / sentinel.ErrConflict.
type DepartmentStore interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, d Department) (Department, error)
	Delete(ctx context.Context, id int64) error
}

type MunicipalityStore interface {
	Create(ctx context.Context, m Municipality) (Municipality, error)
	GetByID(ctx context.Context, id int64) (Municipality, error)
	List(ctx context.Context) ([]Municipality, error)
	Update(ctx context.Context, m Municipality) (Municipality, error)
	Delete(ctx context.Context, id int64) error
}

type EmployeeStore interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id int64) error
	// CountByStatus feeds the dashboard; an empty status counts everything.
	CountByStatus(ctx context.Context, status EmployeeStatus) (int, error)
}
