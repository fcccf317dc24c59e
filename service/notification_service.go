package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oversight/models"
	"oversight/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type notificationService struct {
	uowFactory UnitOfWorkFactory
	publisher  NotificationPublisher
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewNotificationService creates a notification service. publisher may be nil when no
// broker is configured; notifications are then only stored.
func NewNotificationService(uowFactory UnitOfWorkFactory, publisher NotificationPublisher, metrics *observability.Metrics) NotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Send stores one notification per recipient that is a known user and publishes each
// after commit. Unknown recipients are skipped.
func (s *notificationService) Send(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	if err := required([2]string{"title", req.Title}, [2]string{"message", req.Message}); err != nil {
		return nil, err
	}
	if req.Type == "" {
		req.Type = models.NotificationInfo
	}
	if !req.Type.IsValid() {
		return nil, NewValidationError("type", "must be one of alert, info, warning, success")
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !models.IsValidPriority(req.Priority) {
		return nil, NewValidationError("priority", "must be one of high, medium, low")
	}
	if len(req.UserIDs) == 0 {
		return nil, NewValidationError("user_ids", "at least one recipient is required")
	}

	ids := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			log.WithField("recipient", raw).Debug("Skipping notification recipient that is not a user id")
			continue
		}
		ids = append(ids, id)
	}

	result := &models.NotificationResult{NotificationIDs: []uuid.UUID{}}
	if len(ids) == 0 {
		return result, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FilterExisting(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if skipped := len(ids) - len(existing); skipped > 0 {
		log.WithField("skipped", skipped).Warn("Notification recipients not found")
	}

	created := make([]*models.Notification, 0, len(existing))
	for _, userID := range existing {
		n := &models.Notification{
			UserID:   userID,
			Title:    req.Title,
			Message:  req.Message,
			Type:     req.Type.StoredType(),
			Priority: req.Priority,
			EntityID: req.EntityID,
		}
		if err := uow.NotificationRepository().Create(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to create notification: %w", err)
		}
		created = append(created, n)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, n := range created {
		result.NotificationIDs = append(result.NotificationIDs, n.ID)
		s.publish(ctx, n)
	}
	result.Sent = len(created)
	return result, nil
}

// publish pushes a stored notification to the broker. Failures are logged; the row is
// already committed.
func (s *notificationService) publish(ctx context.Context, n *models.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotification(ctx, n); err != nil {
		s.metrics.NotificationPublished("nats", "failed")
		log.WithError(err).WithField("notificationID", n.ID).Warn("Failed to publish notification")
		return
	}
	s.metrics.NotificationPublished("nats", "ok")
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	notifications, total, err := uow.NotificationRepository().ListForUser(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, models.NewPagination(page, total), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	found, err := uow.NotificationRepository().MarkRead(ctx, id, userID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !found {
		return notFound("notification", id)
	}
	return uow.Commit()
}
