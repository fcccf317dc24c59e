package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const entityColumns = `entity_id, entity_code, entity_name_en, entity_name_ar, entity_type, region, sector,
	location_city, contact_email, contact_phone, description, status, total_programs, active_programs,
	total_budget, digital_maturity_score, created_at, updated_at`

// EntityRepository implements the EntityRepository interface
type EntityRepository struct {
	q queryable
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *database.DB) *EntityRepository {
	return &EntityRepository{q: db.Pool}
}

// newEntityRepositoryWithTx creates a new entity repository with a transaction
func newEntityRepositoryWithTx(tx queryable) *EntityRepository {
	return &EntityRepository{q: tx}
}

func scanEntity(row scanner) (*models.Entity, error) {
	var e models.Entity
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.NameEN,
		&e.NameAR,
		&e.Type,
		&e.Region,
		&e.Sector,
		&e.LocationCity,
		&e.ContactEmail,
		&e.ContactPhone,
		&e.Description,
		&e.Status,
		&e.TotalPrograms,
		&e.ActivePrograms,
		&e.TotalBudget,
		&e.DigitalMaturityScore,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func entityWhere(filter models.EntityFilter) sq.And {
	where := sq.And{}
	if filter.Region != "" {
		where = append(where, sq.Eq{"region": filter.Region})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.Sector != "" {
		where = append(where, sq.Eq{"sector": filter.Sector})
	}
	return where
}

// List returns one page of entities ordered by English name, plus the filtered total
func (r *EntityRepository) List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, int, error) {
	where := entityWhere(filter)

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_entities").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entities: %w", err)
	}

	entities, err := queryList(ctx, r.q, psql.Select(entityColumns).
		From("dga_entities").
		Where(where).
		OrderBy("entity_name_en").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanEntity)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, total, nil
}

// ListByRegion returns every entity in a region ordered by maturity
func (r *EntityRepository) ListByRegion(ctx context.Context, region string) ([]*models.Entity, error) {
	entities, err := queryList(ctx, r.q, psql.Select(entityColumns).
		From("dga_entities").
		Where(sq.Eq{"region": region}).
		OrderBy("digital_maturity_score DESC", "entity_name_en"), scanEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities in region %s: %w", region, err)
	}
	return entities, nil
}

// GetByID retrieves an entity by its ID
func (r *EntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM dga_entities WHERE entity_id = $1`

	entity, err := scanEntity(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %s: %w", id, err)
	}
	return entity, nil
}

// Create inserts a new entity
func (r *EntityRepository) Create(ctx context.Context, entity *models.Entity) error {
	query := `
		INSERT INTO dga_entities (
			entity_code, entity_name_en, entity_name_ar, entity_type, region, sector,
			location_city, contact_email, contact_phone, description, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + entityColumns

	created, err := scanEntity(r.q.QueryRow(ctx, query,
		entity.Code,
		entity.NameEN,
		entity.NameAR,
		entity.Type,
		entity.Region,
		entity.Sector,
		entity.LocationCity,
		entity.ContactEmail,
		entity.ContactPhone,
		entity.Description,
		entity.Status,
	))
	if err != nil {
		return fmt.Errorf("failed to create entity %s: %w", entity.Code, err)
	}

	*entity = *created
	return nil
}

// Update applies whitelisted column changes
func (r *EntityRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Entity, error) {
	entity, err := updateReturning(ctx, r.q, "dga_entities", "entity_id", id, fields, entityColumns, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to update entity %s: %w", id, err)
	}
	return entity, nil
}

// Delete removes an entity and, by cascade, its programs, projects and budget
func (r *EntityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := deleteByID(ctx, r.q, "dga_entities", "entity_id", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete entity %s: %w", id, err)
	}
	return deleted, nil
}
