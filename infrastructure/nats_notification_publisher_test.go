package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestNATSNotificationPublisher_PublishNotification(t *testing.T) {
	ctx := context.Background()
	sentAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	notification := &models.Notification{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Title:    "Approval required",
		Message:  "Program workflow awaits your decision",
		Type:     "alert",
		Priority: "high",
	}

	t.Run("wraps notification in envelope", func(t *testing.T) {
		transport := new(MockMessagePublisher)
		var published []byte
		transport.On("Publish", ctx, "oversight.notifications.alert", mock.Anything).
			Return(nil).
			Run(func(args mock.Arguments) { published = args.Get(2).([]byte) })

		publisher := NewNATSNotificationPublisher(transport, "oversight")
		publisher.now = func() time.Time { return sentAt }

		require.NoError(t, publisher.PublishNotification(ctx, notification))

		var envelope Envelope
		require.NoError(t, json.Unmarshal(published, &envelope))
		assert.Equal(t, "notification.alert", envelope.EventType)
		assert.Equal(t, "oversight", envelope.SourceService)
		assert.True(t, sentAt.Equal(envelope.Timestamp))
		_, err := uuid.Parse(envelope.EventID)
		assert.NoError(t, err)

		var payload models.Notification
		require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
		assert.Equal(t, notification.ID, payload.ID)
		assert.Equal(t, notification.Title, payload.Title)
		transport.AssertExpectations(t)
	})

	t.Run("transport failure", func(t *testing.T) {
		transport := new(MockMessagePublisher)
		transport.On("Publish", ctx, "gov.notifications.alert", mock.Anything).Return(errors.New("no responders"))

		err := NewNATSNotificationPublisher(transport, "gov").PublishNotification(ctx, notification)

		assert.ErrorContains(t, err, "no responders")
	})
}

func TestNotificationSubject(t *testing.T) {
	assert.Equal(t, "oversight.notifications.warning", NotificationSubject("oversight", "warning"))
	assert.Equal(t, "oversight.notifications.*", NotificationSubject("oversight", "*"))
}
