package service

import (
	"context"
	"fmt"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var entityStatuses = []string{"Active", "Inactive", "Under Review"}

type entityService struct {
	uowFactory UnitOfWorkFactory
}

// NewEntityService creates a new entity service
func NewEntityService(uowFactory UnitOfWorkFactory) EntityService {
	return &entityService{
		uowFactory: uowFactory,
	}
}

func (s *entityService) List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entities, total, err := uow.EntityRepository().List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, models.NewPagination(page, total), nil
}

// Get returns the entity with its programs and budget totals
func (s *entityService) Get(ctx context.Context, id uuid.UUID) (*models.EntityDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entity, err := uow.EntityRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	if entity == nil {
		return nil, notFound("entity", id)
	}

	programs, err := uow.ProgramRepository().ListByEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity programs: %w", err)
	}

	totals, err := uow.BudgetRepository().TotalsByEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity budget: %w", err)
	}

	return &models.EntityDetail{Entity: entity, Programs: programs, Budget: totals}, nil
}

func (s *entityService) Create(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	if err := required(
		[2]string{"entity_code", entity.Code},
		[2]string{"entity_name_en", entity.NameEN},
		[2]string{"entity_name_ar", entity.NameAR},
		[2]string{"entity_type", entity.Type},
		[2]string{"region", entity.Region},
	); err != nil {
		return nil, err
	}
	if !models.IsValidRegion(entity.Region) {
		return nil, NewValidationError("region", "must be one of %v", models.Regions)
	}
	if entity.Status == "" {
		entity.Status = "Active"
	}
	if !oneOf(entity.Status, entityStatuses) {
		return nil, NewValidationError("status", "must be one of %v", entityStatuses)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.EntityRepository().Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"entityID":   entity.ID,
		"entityCode": entity.Code,
	}).Info("Entity created")
	return entity, nil
}

func (s *entityService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Entity, error) {
	fields, err := coerceUpdates(models.EntityFields, updates)
	if err != nil {
		return nil, err
	}
	if region, ok := fields["region"].(string); ok && !models.IsValidRegion(region) {
		return nil, NewValidationError("region", "must be one of %v", models.Regions)
	}
	if status, ok := fields["status"].(string); ok && !oneOf(status, entityStatuses) {
		return nil, NewValidationError("status", "must be one of %v", entityStatuses)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entity, err := uow.EntityRepository().Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update entity: %w", err)
	}
	if entity == nil {
		return nil, notFound("entity", id)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entity, nil
}

func (s *entityService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.EntityRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if !deleted {
		return notFound("entity", id)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("entityID", id).Info("Entity deleted")
	return nil
}
