package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestTicketService() (*ticketService, *MockUnitOfWork, *MockTicketRepository) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockTicketRepo := new(MockTicketRepository)
	mockUoW.SetTicketRepository(mockTicketRepo)
	mockFactory.On("Create").Return(mockUoW)

	service := NewTicketService(mockFactory).(*ticketService)
	service.now = func() time.Time { return fixedNow }
	return service, mockUoW, mockTicketRepo
}

func TestTicketService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers ticket from sequence", func(t *testing.T) {
		service, mockUoW, mockTicketRepo := createTestTicketService()
		setupBasicTransactionMocks(mockUoW)

		creator := uuid.New()
		mockTicketRepo.On("NextNumber", ctx).Return(int64(42), nil)
		mockTicketRepo.On("Create", ctx, mock.MatchedBy(func(tk *models.Ticket) bool {
			return tk.Number == "TKT-2025-000042" &&
				tk.CreatedBy == creator &&
				tk.Status == models.TicketStatusOpen &&
				tk.Priority == "Medium"
		})).Return(nil)

		ticket, err := service.Create(ctx, &models.Ticket{
			Subject:     "Cannot export report",
			Description: "Export button returns an error",
			Category:    "Technical Issue",
		}, models.Identity{UserID: creator.String()})

		require.NoError(t, err)
		assert.Equal(t, "TKT-2025-000042", ticket.Number)
		assertAllMockExpectations(t, mockUoW, mockTicketRepo)
	})

	t.Run("unknown category", func(t *testing.T) {
		service, _, _ := createTestTicketService()

		_, err := service.Create(ctx, &models.Ticket{
			Subject: "x", Description: "y", Category: "Complaint",
		}, models.Identity{UserID: uuid.NewString()})

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "category", valErr.Field)
	})

	t.Run("creator must be a user", func(t *testing.T) {
		service, _, _ := createTestTicketService()

		_, err := service.Create(ctx, &models.Ticket{
			Subject: "x", Description: "y", Category: "Other",
		}, models.Identity{UserID: "demo"})

		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestTicketService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("resolving stamps resolved_at", func(t *testing.T) {
		service, mockUoW, mockTicketRepo := createTestTicketService()
		setupBasicTransactionMocks(mockUoW)

		id := uuid.New()
		mockTicketRepo.On("Update", ctx, id, map[string]any{
			"status":      models.TicketStatusResolved,
			"resolution":  "Cache cleared",
			"resolved_at": fixedNow,
		}).Return(&models.Ticket{ID: id, Status: models.TicketStatusResolved}, nil)

		ticket, err := service.Update(ctx, id, map[string]any{
			"status":     models.TicketStatusResolved,
			"resolution": "Cache cleared",
		})

		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusResolved, ticket.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		service, _, _ := createTestTicketService()

		_, err := service.Update(ctx, uuid.New(), map[string]any{"status": "Escalated"})

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "status", valErr.Field)
	})
}
