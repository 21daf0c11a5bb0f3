// Package postgres persists user accounts. Permissions live in a jsonb
// column in the canonical array form; department membership is a bigint
// array.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"muniadmin/internal/identity"
	"muniadmin/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, name, username, password_hash, permissions, department_ids, created_at, updated_at`

func (s *Store) Create(ctx context.Context, user identity.User) (identity.User, error) {
	perms, err := json.Marshal(user.Permissions)
	if err != nil {
		return identity.User{}, fmt.Errorf("marshal permissions: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, username, password_hash, permissions, department_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Name, user.Username, user.PasswordHash, perms, pq.Array(user.DepartmentIDs),
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.User{}, sentinel.ErrConflict
		}
		return identity.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.getOne(row)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
	return s.getOne(row)
}

func (s *Store) getOne(row *sql.Row) (identity.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.User{}, sentinel.ErrNotFound
		}
		return identity.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (s *Store) List(ctx context.Context) ([]identity.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []identity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) Update(ctx context.Context, user identity.User) (identity.User, error) {
	perms, err := json.Marshal(user.Permissions)
	if err != nil {
		return identity.User{}, fmt.Errorf("marshal permissions: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $2, username = $3, password_hash = $4, permissions = $5,
		    department_ids = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Username, user.PasswordHash, perms, pq.Array(user.DepartmentIDs),
	)

	updated, err := scanUser(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return identity.User{}, sentinel.ErrNotFound
		case isUniqueViolation(err):
			return identity.User{}, sentinel.ErrConflict
		default:
			return identity.User{}, fmt.Errorf("update user: %w", err)
		}
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (identity.User, error) {
	var (
		user        identity.User
		permsRaw    []byte
		departments pq.Int64Array
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.PasswordHash,
		&permsRaw,
		&departments,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return identity.User{}, err
	}

	if len(permsRaw) > 0 {
		if err := json.Unmarshal(permsRaw, &user.Permissions); err != nil {
			return identity.User{}, fmt.Errorf("decode permissions: %w", err)
		}
	}
	user.DepartmentIDs = departments
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
