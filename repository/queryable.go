package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable is satisfied by both the pool and a transaction
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds Postgres-flavoured statements
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scanner is the common Scan method of pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

// queryList runs a built select and scans every row with scan
func queryList[T any](ctx context.Context, q queryable, builder sq.SelectBuilder, scan func(scanner) (*T, error)) ([]*T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// queryCount runs a built COUNT(*) select
func queryCount(ctx context.Context, q queryable, builder sq.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// updateReturning applies fields to one row and scans the updated row with scan
func updateReturning[T any](ctx context.Context, q queryable, table, idColumn string, id any, fields map[string]any, returning string, scan func(scanner) (*T, error)) (*T, error) {
	query, args, err := psql.Update(table).
		SetMap(fields).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{idColumn: id}).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}
	item, err := scan(q.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// deleteByID removes one row, reporting whether it existed
func deleteByID(ctx context.Context, q queryable, table, idColumn string, id any) (bool, error) {
	query, args, err := psql.Delete(table).Where(sq.Eq{idColumn: id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete: %w", err)
	}
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
