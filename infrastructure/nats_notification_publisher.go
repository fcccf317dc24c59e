package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	sourceService          = "oversight"
	notificationStreamName = "notifications"
	notificationRetention  = 7 * 24 * time.Hour
)

// MessagePublisher is the transport the notification publisher writes to
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Envelope wraps every message put on the bus
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NotificationSubject is the subject a notification of the given type is published on
func NotificationSubject(prefix, notificationType string) string {
	return fmt.Sprintf("%s.notifications.%s", prefix, notificationType)
}

// NATSNotificationPublisher publishes stored notifications
type NATSNotificationPublisher struct {
	transport MessagePublisher
	prefix    string
	now       func() time.Time
}

// NewNATSNotificationPublisher creates a publisher writing under prefix
func NewNATSNotificationPublisher(transport MessagePublisher, prefix string) *NATSNotificationPublisher {
	return &NATSNotificationPublisher{
		transport: transport,
		prefix:    prefix,
		now:       time.Now,
	}
}

// EnsureNotificationStream creates the JetStream stream that captures every notification subject
func EnsureNotificationStream(client *NATSClient, prefix string) error {
	return client.EnsureStream(notificationStreamName, []string{NotificationSubject(prefix, "*")}, notificationRetention)
}

// PublishNotification sends the notification wrapped in an Envelope
func (p *NATSNotificationPublisher) PublishNotification(ctx context.Context, notification *models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	envelope := Envelope{
		EventID:       uuid.New().String(),
		EventType:     "notification." + notification.Type,
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}

	subject := NotificationSubject(p.prefix, notification.Type)
	if err := p.transport.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	log.WithFields(log.Fields{
		"notificationID": notification.ID,
		"subject":        subject,
		"eventID":        envelope.EventID,
	}).Debug("Published notification")
	return nil
}
