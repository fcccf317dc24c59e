package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oversight/events"
	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestNotificationService(publisher NotificationPublisher) (NotificationService, *MockUnitOfWork, *MockUserRepository, *MockNotificationRepository) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockUserRepo := new(MockUserRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	mockUoW.SetUserRepository(mockUserRepo)
	mockUoW.SetNotificationRepository(mockNotificationRepo)
	mockFactory.On("Create").Return(mockUoW)

	return NewNotificationService(mockFactory, publisher, nil), mockUoW, mockUserRepo, mockNotificationRepo
}

func TestNotificationService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and publishes for known users only", func(t *testing.T) {
		mockPublisher := new(MockNotificationPublisher)
		service, mockUoW, mockUserRepo, mockNotificationRepo := createTestNotificationService(mockPublisher)
		setupBasicTransactionMocks(mockUoW)

		known, unknown := uuid.New(), uuid.New()
		mockUserRepo.On("FilterExisting", ctx, []uuid.UUID{known, unknown}).Return([]uuid.UUID{known}, nil)

		notificationID := uuid.New()
		mockNotificationRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.UserID == known && n.Type == "Alert" && n.Priority == "high"
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Notification).ID = notificationID
		})
		mockPublisher.On("PublishNotification", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.ID == notificationID
		})).Return(errors.New("nats: no responders"))

		result, err := service.Send(ctx, &models.NotificationRequest{
			UserIDs:  []string{known.String(), "ops@dga.gov.sa", unknown.String()},
			Title:    "Budget overrun",
			Message:  "Spending exceeded allocation",
			Type:     models.NotificationAlert,
			Priority: "high",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, []uuid.UUID{notificationID}, result.NotificationIDs)
		assertAllMockExpectations(t, mockUoW, mockUserRepo, mockNotificationRepo, mockPublisher)
	})

	t.Run("no user ids resolves to nothing", func(t *testing.T) {
		service, _, _, _ := createTestNotificationService(nil)

		result, err := service.Send(ctx, &models.NotificationRequest{
			UserIDs: []string{"someone"},
			Title:   "t",
			Message: "m",
		})

		require.NoError(t, err)
		assert.Zero(t, result.Sent)
		assert.Empty(t, result.NotificationIDs)
	})

	tests := []struct {
		name  string
		req   *models.NotificationRequest
		field string
	}{
		{"missing title", &models.NotificationRequest{UserIDs: []string{"a"}, Message: "m"}, "title"},
		{"bad type", &models.NotificationRequest{UserIDs: []string{"a"}, Title: "t", Message: "m", Type: "urgent"}, "type"},
		{"bad priority", &models.NotificationRequest{UserIDs: []string{"a"}, Title: "t", Message: "m", Priority: "asap"}, "priority"},
		{"no recipients", &models.NotificationRequest{Title: "t", Message: "m"}, "user_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _ := createTestNotificationService(nil)

			_, err := service.Send(ctx, tt.req)

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, _, mockNotificationRepo := createTestNotificationService(nil)
	setupBasicTransactionMocks(mockUoW)

	id, owner := uuid.New(), uuid.New()
	mockNotificationRepo.On("MarkRead", ctx, id, owner, mock.AnythingOfType("time.Time")).Return(true, nil)
	mockNotificationRepo.On("MarkRead", ctx, id, mock.Anything, mock.AnythingOfType("time.Time")).Return(false, nil)

	assert.NoError(t, service.MarkRead(ctx, id, owner))
	assert.ErrorIs(t, service.MarkRead(ctx, id, uuid.New()), ErrNotFound)
}

func TestSubscribeNotifications(t *testing.T) {
	bus := events.NewBus()
	mockNotifications := new(MockNotificationService)
	SubscribeNotifications(bus, mockNotifications)

	director := uuid.New()
	sent := make(chan *models.NotificationRequest, 4)
	mockNotifications.On("Send", mock.Anything, mock.Anything).Return(&models.NotificationResult{Sent: 1}, nil).
		Run(func(args mock.Arguments) {
			sent <- args.Get(1).(*models.NotificationRequest)
		})

	ctx := context.Background()
	bus.Emit(ctx, events.WorkflowCompletedEvent{
		WorkflowID:  uuid.New(),
		ItemType:    "budget",
		InitiatorID: "initiator",
		Status:      models.WorkflowStatusRejected,
		Comments:    "missing justification",
	})
	bus.Emit(ctx, events.ProgramStatusChangedEvent{
		ProgramID:   uuid.New(),
		ProgramName: "Smart Clinics",
		Director:    &director,
		OldStatus:   models.ProgramStatusInProgress,
		NewStatus:   models.ProgramStatusDelayed,
		Reason:      "Behind schedule",
	})
	// no director, nobody to tell
	bus.Emit(ctx, events.ProgramStatusChangedEvent{ProgramID: uuid.New(), NewStatus: models.ProgramStatusCompleted})

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Wait(waitCtx))
	close(sent)

	byTitle := map[string]*models.NotificationRequest{}
	for req := range sent {
		byTitle[req.Title] = req
	}
	require.Len(t, byTitle, 2)

	rejected := byTitle["Workflow rejected"]
	require.NotNil(t, rejected)
	assert.Equal(t, []string{"initiator"}, rejected.UserIDs)
	assert.Equal(t, models.NotificationAlert, rejected.Type)
	assert.Contains(t, rejected.Message, "missing justification")

	delayed := byTitle["Program Delayed"]
	require.NotNil(t, delayed)
	assert.Equal(t, []string{director.String()}, delayed.UserIDs)
	assert.Equal(t, models.NotificationWarning, delayed.Type)
}
