package service

import (
	"context"
	"fmt"

	"oversight/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// List returns one page of accounts
func (s *userService) List(ctx context.Context, page models.PageRequest) ([]*models.User, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, total, err := uow.UserRepository().List(ctx, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, models.NewPagination(page, total), nil
}
