package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// BatchRepository applies generic row writes restricted to models.BatchTables
type BatchRepository struct {
	q queryable
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{q: db.Pool}
}

func newBatchRepositoryWithTx(tx queryable) *BatchRepository {
	return &BatchRepository{q: tx}
}

func batchTable(name string) (models.BatchTable, error) {
	table, ok := models.BatchTables[name]
	if !ok {
		return models.BatchTable{}, fmt.Errorf("table %q is not allowed", name)
	}
	return table, nil
}

// UpdateRow updates one row, reporting whether it existed. Column names must already
// have been checked against the table's field whitelist.
func (r *BatchRepository) UpdateRow(ctx context.Context, tableName string, id uuid.UUID, fields map[string]any) (bool, error) {
	table, err := batchTable(tableName)
	if err != nil {
		return false, err
	}
	for column := range fields {
		if _, ok := table.Fields[column]; !ok {
			return false, fmt.Errorf("column %q of %s cannot be updated", column, tableName)
		}
	}

	query, args, err := psql.Update(tableName).
		SetMap(fields).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{table.IDColumn: id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build batch update: %w", err)
	}

	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update %s %s: %w", tableName, id, err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteRow deletes one row, reporting whether it existed
func (r *BatchRepository) DeleteRow(ctx context.Context, tableName string, id uuid.UUID) (bool, error) {
	table, err := batchTable(tableName)
	if err != nil {
		return false, err
	}

	deleted, err := deleteByID(ctx, r.q, tableName, table.IDColumn, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", tableName, id, err)
	}
	return deleted, nil
}
