// Package postgres persists the audit trail in the audit_logs table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"muniadmin/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit record and returns it with the generated id.
// Rows in audit_logs are never updated or deleted by the application.
func (s *Store) Append(ctx context.Context, record audit.Record) (audit.Record, error) {
	query := `
		INSERT INTO audit_logs (user_id, username, action_type, entity_type, entity_id, details, ip_address, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		record.UserID,
		record.Username,
		string(record.ActionType),
		record.EntityType,
		record.EntityID,
		record.Details,
		record.IPAddress,
		record.Timestamp,
	).Scan(&record.ID)
	if err != nil {
		return audit.Record{}, fmt.Errorf("insert audit record: %w", err)
	}
	return record, nil
}

// List returns matching records ordered newest first, enriched with the
// acting user's current name and username where the user still exists.
func (s *Store) List(ctx context.Context, q audit.Query, limit, offset int) ([]audit.Record, error) {
	where, args := buildWhere(q)

	query := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.username, a.action_type, a.entity_type, a.entity_id,
		       a.details, a.ip_address, a.timestamp, u.name, u.username
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id
		%s
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the number of records matching the filters.
func (s *Store) Count(ctx context.Context, q audit.Query) (int, error) {
	where, args := buildWhere(q)

	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM audit_logs a %s`, where)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count audit records: %w", err)
	}
	return total, nil
}

// buildWhere assembles the AND-combined filter clause. The date range is
// inclusive on both ends.
func buildWhere(q audit.Query) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.UserID != 0 {
		add("a.user_id = $%d", q.UserID)
	}
	if q.ActionType != "" {
		add("a.action_type = $%d", string(q.ActionType))
	}
	if q.EntityType != "" {
		add("a.entity_type = $%d", q.EntityType)
	}
	if q.EntityID != "" {
		add("a.entity_id = $%d", q.EntityID)
	}
	if q.StartDate != nil {
		add("a.timestamp >= $%d", *q.StartDate)
	}
	if q.EndDate != nil {
		add("a.timestamp <= $%d", *q.EndDate)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanRecords(rows *sql.Rows) ([]audit.Record, error) {
	var records []audit.Record

	for rows.Next() {
		var (
			record        audit.Record
			actionType    string
			actorName     sql.NullString
			actorUsername sql.NullString
		)

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Username,
			&actionType,
			&record.EntityType,
			&record.EntityID,
			&record.Details,
			&record.IPAddress,
			&record.Timestamp,
			&actorName,
			&actorUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}

		record.ActionType = audit.ActionType(actionType)
		if actorUsername.Valid {
			record.Actor = &audit.Actor{
				Name:     actorName.String,
				Username: actorUsername.String,
			}
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}

	return records, nil
}
