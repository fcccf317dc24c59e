package service

import (
	"context"
	"testing"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetUserRepository(mockUserRepo)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	page := models.NewPageRequest(2, 2)
	analyst, ministry := "analyst", "ministry"
	users := []*models.User{
		{ID: uuid.New(), Username: &analyst, Role: models.RoleAnalyticsLead},
		{ID: uuid.New(), Username: &ministry, Role: models.RoleMinistryUser},
	}
	mockUserRepo.On("List", ctx, page).Return(users, 5, nil)

	got, pagination, err := NewUserService(mockFactory).List(ctx, page)

	require.NoError(t, err)
	assert.Equal(t, users, got)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 2, Total: 5, Pages: 3}, pagination)
	assertAllMockExpectations(t, mockUoW, mockUserRepo)
}
