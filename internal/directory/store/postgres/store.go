// Package postgres persists the directory entities.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"muniadmin/internal/directory"
	"muniadmin/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

type DepartmentStore struct {
	db *sql.DB
}

func NewDepartmentStore(db *sql.DB) *DepartmentStore {
	return &DepartmentStore{db: db}
}

func (s *DepartmentStore) Create(ctx context.Context, d directory.Department) (directory.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO departments (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at`, d.Name)

	if err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return directory.Department{}, sentinel.ErrConflict
		}
		return directory.Department{}, fmt.Errorf("insert department: %w", err)
	}
	return d, nil
}

func (s *DepartmentStore) GetByID(ctx context.Context, id int64) (directory.Department, error) {
	var d directory.Department
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Department{}, sentinel.ErrNotFound
		}
		return directory.Department{}, fmt.Errorf("query department: %w", err)
	}
	return d, nil
}

func (s *DepartmentStore) List(ctx context.Context) ([]directory.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var out []directory.Department
	for rows.Next() {
		var d directory.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *DepartmentStore) Update(ctx context.Context, d directory.Department) (directory.Department, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE departments SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`, d.ID, d.Name)

	if err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return directory.Department{}, sentinel.ErrNotFound
		case isUniqueViolation(err):
			return directory.Department{}, sentinel.ErrConflict
		default:
			return directory.Department{}, fmt.Errorf("update department: %w", err)
		}
	}
	return d, nil
}

func (s *DepartmentStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "departments", id)
}

type MunicipalityStore struct {
	db *sql.DB
}

func NewMunicipalityStore(db *sql.DB) *MunicipalityStore {
	return &MunicipalityStore{db: db}
}

func (s *MunicipalityStore) Create(ctx context.Context, m directory.Municipality) (directory.Municipality, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO municipalities (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at`, m.Name)

	if err := row.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return directory.Municipality{}, sentinel.ErrConflict
		}
		return directory.Municipality{}, fmt.Errorf("insert municipality: %w", err)
	}
	return m, nil
}

func (s *MunicipalityStore) GetByID(ctx context.Context, id int64) (directory.Municipality, error) {
	var m directory.Municipality
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM municipalities WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Municipality{}, sentinel.ErrNotFound
		}
		return directory.Municipality{}, fmt.Errorf("query municipality: %w", err)
	}
	return m, nil
}

func (s *MunicipalityStore) List(ctx context.Context) ([]directory.Municipality, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM municipalities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query municipalities: %w", err)
	}
	defer rows.Close()

	var out []directory.Municipality
	for rows.Next() {
		var m directory.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MunicipalityStore) Update(ctx context.Context, m directory.Municipality) (directory.Municipality, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE municipalities SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`, m.ID, m.Name)

	if err := row.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return directory.Municipality{}, sentinel.ErrNotFound
		case isUniqueViolation(err):
			return directory.Municipality{}, sentinel.ErrConflict
		default:
			return directory.Municipality{}, fmt.Errorf("update municipality: %w", err)
		}
	}
	return m, nil
}

func (s *MunicipalityStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "municipalities", id)
}

type EmployeeStore struct {
	db *sql.DB
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

const employeeColumns = `id, name, email, department_id, municipality_id, status, created_at, updated_at`

func (s *EmployeeStore) Create(ctx context.Context, e directory.Employee) (directory.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO employees (name, email, department_id, municipality_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+employeeColumns,
		e.Name, e.Email, e.DepartmentID, e.MunicipalityID, e.Status)

	created, err := scanEmployee(row)
	if err != nil {
		return directory.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return created, nil
}

func (s *EmployeeStore) GetByID(ctx context.Context, id int64) (directory.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Employee{}, sentinel.ErrNotFound
		}
		return directory.Employee{}, fmt.Errorf("query employee: %w", err)
	}
	return e, nil
}

func (s *EmployeeStore) List(ctx context.Context) ([]directory.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var out []directory.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *EmployeeStore) Update(ctx context.Context, e directory.Employee) (directory.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE employees
		SET name = $2, email = $3, department_id = $4, municipality_id = $5,
		    status = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+employeeColumns,
		e.ID, e.Name, e.Email, e.DepartmentID, e.MunicipalityID, e.Status)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Employee{}, sentinel.ErrNotFound
		}
		return directory.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return updated, nil
}

func (s *EmployeeStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "employees", id)
}

func (s *EmployeeStore) CountByStatus(ctx context.Context, status directory.EmployeeStatus) (int, error) {
	query := `SELECT count(*) FROM employees`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (directory.Employee, error) {
	var e directory.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.DepartmentID,
		&e.MunicipalityID,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// deleteByID covers the tables whose delete semantics are identical. The
// table name is always a compile-time constant at the call sites.
func deleteByID(ctx context.Context, db *sql.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
