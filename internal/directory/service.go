package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	dErrors "muniadmin/pkg/domain-errors"
	"muniadmin/pkg/platform/sentinel"
)

// Service exposes the directory operations the HTTP layer needs. Validation
// lives here; the stores only know about persistence.
type Service struct {
	departments    DepartmentStore
	municipalities MunicipalityStore
	employees      EmployeeStore
	logger         *slog.Logger
}

func NewService(departments DepartmentStore, municipalities MunicipalityStore, employees EmployeeStore, logger *slog.Logger) *Service {
	return &Service{
		departments:    departments,
		municipalities: municipalities,
		employees:      employees,
		logger:         logger,
	}
}

func (s *Service) CreateDepartment(ctx context.Context, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, dErrors.New(dErrors.CodeInvalidInput, "department name is required")
	}

	created, err := s.departments.Create(ctx, Department{Name: name})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Department{}, dErrors.New(dErrors.CodeConflict, "department already exists")
		}
		return Department{}, dErrors.Wrap(dErrors.CodeInternal, "create department", err)
	}
	return created, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (Department, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return Department{}, mapStoreErr(err, "department")
	}
	return d, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	ds, err := s.departments.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list departments", err)
	}
	if ds == nil {
		ds = []Department{}
	}
	return ds, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, dErrors.New(dErrors.CodeInvalidInput, "department name is required")
	}

	updated, err := s.departments.Update(ctx, Department{ID: id, Name: name})
	if err != nil {
		return Department{}, mapStoreErr(err, "department")
	}
	return updated, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return mapStoreErr(err, "department")
	}
	return nil
}

func (s *Service) CreateMunicipality(ctx context.Context, name string) (Municipality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Municipality{}, dErrors.New(dErrors.CodeInvalidInput, "municipality name is required")
	}

	created, err := s.municipalities.Create(ctx, Municipality{Name: name})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Municipality{}, dErrors.New(dErrors.CodeConflict, "municipality already exists")
		}
		return Municipality{}, dErrors.Wrap(dErrors.CodeInternal, "create municipality", err)
	}
	return created, nil
}

func (s *Service) GetMunicipality(ctx context.Context, id int64) (Municipality, error) {
	m, err := s.municipalities.GetByID(ctx, id)
	if err != nil {
		return Municipality{}, mapStoreErr(err, "municipality")
	}
	return m, nil
}

func (s *Service) ListMunicipalities(ctx context.Context) ([]Municipality, error) {
	ms, err := s.municipalities.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list municipalities", err)
	}
	if ms == nil {
		ms = []Municipality{}
	}
	return ms, nil
}

func (s *Service) UpdateMunicipality(ctx context.Context, id int64, name string) (Municipality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Municipality{}, dErrors.New(dErrors.CodeInvalidInput, "municipality name is required")
	}

	updated, err := s.municipalities.Update(ctx, Municipality{ID: id, Name: name})
	if err != nil {
		return Municipality{}, mapStoreErr(err, "municipality")
	}
	return updated, nil
}

func (s *Service) DeleteMunicipality(ctx context.Context, id int64) error {
	if err := s.municipalities.Delete(ctx, id); err != nil {
		return mapStoreErr(err, "municipality")
	}
	return nil
}

// CreateEmployee records a staffing request. New records start as PENDING
// unless the caller explicitly sets a status.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	e, err := employeeFromInput(in)
	if err != nil {
		return Employee{}, err
	}

	created, err := s.employees.Create(ctx, e)
	if err != nil {
		return Employee{}, dErrors.Wrap(dErrors.CodeInternal, "create employee", err)
	}
	s.logger.InfoContext(ctx, "employee request created",
		"employee_id", created.ID, "status", created.Status)
	return created, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return Employee{}, mapStoreErr(err, "employee")
	}
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	es, err := s.employees.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list employees", err)
	}
	if es == nil {
		es = []Employee{}
	}
	return es, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (Employee, error) {
	e, err := employeeFromInput(in)
	if err != nil {
		return Employee{}, err
	}
	e.ID = id

	updated, err := s.employees.Update(ctx, e)
	if err != nil {
		return Employee{}, mapStoreErr(err, "employee")
	}
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return mapStoreErr(err, "employee")
	}
	return nil
}

func employeeFromInput(in EmployeeInput) (Employee, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return Employee{}, dErrors.New(dErrors.CodeInvalidInput, "employee name and email are required")
	}
	if in.DepartmentID == 0 || in.MunicipalityID == 0 {
		return Employee{}, dErrors.New(dErrors.CodeInvalidInput, "departmentId and municipalityId are required")
	}

	status := StatusPending
	if in.Status != nil {
		if !in.Status.Valid() {
			return Employee{}, dErrors.New(dErrors.CodeInvalidInput, "invalid employee status")
		}
		status = *in.Status
	}

	return Employee{
		Name:           name,
		Email:          email,
		DepartmentID:   in.DepartmentID,
		MunicipalityID: in.MunicipalityID,
		Status:         status,
	}, nil
}

func mapStoreErr(err error, entity string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, entity+" already exists")
	default:
		return dErrors.Wrap(dErrors.CodeInternal, entity+" storage", err)
	}
}
