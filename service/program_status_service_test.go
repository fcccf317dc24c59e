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

func inProgressProgram(name string, daysAgo, progress int) *models.Program {
	return &models.Program{
		ID:                 uuid.New(),
		Name:               name,
		EntityID:           uuid.New(),
		Status:             models.ProgramStatusInProgress,
		StartDate:          models.NewDate(fixedNow.AddDate(0, 0, -daysAgo)),
		ProgressPercentage: progress,
	}
}

func TestClassifyProgress(t *testing.T) {
	tests := []struct {
		name     string
		program  *models.Program
		expected models.ProgramStatus
	}{
		{"old and slow", inProgressProgram("a", 120, 10), models.ProgramStatusDelayed},
		{"old but progressing", inProgressProgram("b", 120, 30), ""},
		{"exactly ninety days", inProgressProgram("c", 90, 5), ""},
		{"finished", inProgressProgram("d", 10, 100), models.ProgramStatusCompleted},
		{"no progress at all", inProgressProgram("e", 200, 0), models.ProgramStatusDelayed},
		{"on track", inProgressProgram("f", 30, 40), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition := classifyProgress(tt.program, fixedNow)
			if tt.expected == "" {
				assert.Nil(t, transition)
				return
			}
			require.NotNil(t, transition)
			assert.Equal(t, tt.expected, transition.to)
		})
	}
}

func TestProgramStatusService_UpdateStatuses(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockProgramRepo := new(MockProgramRepository)
	mockEventBus := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, mockProgramRepo, mockEventBus)
	mockFactory.On("Create").Return(mockUoW)
	setupBasicTransactionMocks(mockUoW)

	service := NewProgramStatusService(mockFactory, nil).(*programStatusService)
	service.now = func() time.Time { return fixedNow }

	delayed := inProgressProgram("Smart Clinics", 120, 10)
	completed := inProgressProgram("e-Services Portal", 60, 100)
	onTrack := inProgressProgram("Data Lake", 30, 50)
	raced := inProgressProgram("Open Data", 150, 5)
	broken := inProgressProgram("Legacy Migration", 150, 5)

	mockProgramRepo.On("ListInProgress", ctx).Return([]*models.Program{delayed, completed, onTrack, raced, broken}, nil)

	mockProgramRepo.On("TransitionStatus", ctx, delayed.ID, models.ProgramStatusInProgress, models.ProgramStatusDelayed,
		(*time.Time)(nil)).Return(true, nil)
	mockProgramRepo.On("TransitionStatus", ctx, completed.ID, models.ProgramStatusInProgress, models.ProgramStatusCompleted,
		mock.MatchedBy(func(at *time.Time) bool { return at != nil && at.Equal(fixedNow) })).Return(true, nil)
	mockProgramRepo.On("TransitionStatus", ctx, raced.ID, models.ProgramStatusInProgress, models.ProgramStatusDelayed,
		(*time.Time)(nil)).Return(false, nil)
	mockProgramRepo.On("TransitionStatus", ctx, broken.ID, models.ProgramStatusInProgress, models.ProgramStatusDelayed,
		(*time.Time)(nil)).Return(false, errors.New("connection reset"))

	mockProgramRepo.On("RecordStatusChange", ctx, mock.AnythingOfType("*models.ProgramStatusChange")).Return(nil)
	mockEventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		changed, ok := e.(events.ProgramStatusChangedEvent)
		return ok && changed.OldStatus == models.ProgramStatusInProgress
	})).Return()

	result, err := service.UpdateStatuses(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.UpdatedCount)
	require.Len(t, result.Updates, 2)
	assert.Equal(t, delayed.ID, result.Updates[0].ProgramID)
	assert.Equal(t, "Behind schedule", result.Updates[0].Reason)
	assert.Equal(t, models.ProgramStatusCompleted, result.Updates[1].NewStatus)
	assert.Equal(t, "Progress reached 100%", result.Updates[1].Reason)

	mockProgramRepo.AssertNumberOfCalls(t, "RecordStatusChange", 2)
	mockEventBus.AssertNumberOfCalls(t, "Publish", 2)
	mockUoW.AssertNumberOfCalls(t, "Commit", 2)
	mockProgramRepo.AssertNotCalled(t, "TransitionStatus", ctx, onTrack.ID, mock.Anything, mock.Anything, mock.Anything)
}

func TestProgramStatusService_ListFailure(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockProgramRepo := new(MockProgramRepository)
	mockUoW.SetRepositories(nil, mockProgramRepo, nil)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	mockProgramRepo.On("ListInProgress", ctx).Return(nil, errors.New("timeout"))

	_, err := NewProgramStatusService(mockFactory, nil).UpdateStatuses(ctx)
	assert.Error(t, err)
}
