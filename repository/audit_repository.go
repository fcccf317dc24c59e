package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// AuditRepository implements the AuditRepository interface
type AuditRepository struct {
	q queryable
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{q: db.Pool}
}

// newAuditRepositoryWithTx creates a new audit repository with a transaction
func newAuditRepositoryWithTx(tx queryable) *AuditRepository {
	return &AuditRepository{q: tx}
}

// Record appends an entry to the audit trail
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO dga_audit_trail (
			user_id, action_type, action, table_name, record_id, entity_id,
			old_values, new_values, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING audit_id, action_timestamp
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.ActionType,
		entry.Action,
		entry.TableName,
		entry.RecordID,
		entry.EntityID,
		entry.OldValues,
		entry.NewValues,
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record audit entry %s: %w", entry.Action, err)
	}
	return nil
}

// List returns matching entries joined with the acting user, newest first
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEntry, error) {
	where := sq.And{}
	if filter.EntityID != nil {
		where = append(where, sq.Eq{"a.entity_id": *filter.EntityID})
	}
	if filter.Start != nil {
		where = append(where, sq.GtOrEq{"a.action_timestamp": *filter.Start})
	}
	if filter.End != nil {
		where = append(where, sq.LtOrEq{"a.action_timestamp": *filter.End})
	}
	if filter.ActionType != "" {
		where = append(where, sq.Eq{"a.action_type": filter.ActionType})
	}

	builder := psql.Select(
		"a.audit_id", "a.user_id", "a.action_type", "a.action", "a.table_name", "a.record_id",
		"a.entity_id", "a.old_values", "a.new_values", "a.ip_address", "a.user_agent",
		"a.action_timestamp", "u.full_name", "u.email", "u.role",
	).
		From("dga_audit_trail a").
		LeftJoin("users u ON u.user_id = a.user_id").
		Where(where).
		OrderBy("a.action_timestamp DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	entries, err := queryList(ctx, r.q, builder, func(row scanner) (*models.AuditEntry, error) {
		var e models.AuditEntry
		err := row.Scan(
			&e.ID,
			&e.UserID,
			&e.ActionType,
			&e.Action,
			&e.TableName,
			&e.RecordID,
			&e.EntityID,
			&e.OldValues,
			&e.NewValues,
			&e.IPAddress,
			&e.UserAgent,
			&e.Timestamp,
			&e.UserName,
			&e.UserEmail,
			&e.UserRole,
		)
		if err != nil {
			return nil, err
		}
		return &e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// CountByActionTypes counts entries of the given action types, optionally for one entity
func (r *AuditRepository) CountByActionTypes(ctx context.Context, entityID *uuid.UUID, actionTypes []string) (int, error) {
	where := sq.And{sq.Eq{"action_type": actionTypes}}
	if entityID != nil {
		where = append(where, sq.Eq{"entity_id": *entityID})
	}

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_audit_trail").Where(where))
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return total, nil
}
