package repository

import (
	"context"
	"fmt"
	"time"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const notificationColumns = `notification_id, user_id, title, message, type, priority, entity_id, is_read,
	link, read_at, created_at`

// NotificationRepository implements the NotificationRepository interface
type NotificationRepository struct {
	q queryable
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{q: db.Pool}
}

func newNotificationRepositoryWithTx(tx queryable) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

func scanNotification(row scanner) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.Priority,
		&n.EntityID,
		&n.IsRead,
		&n.Link,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO dga_notifications (user_id, title, message, type, priority, entity_id, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + notificationColumns

	created, err := scanNotification(r.q.QueryRow(ctx, query,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Priority,
		notification.EntityID,
		notification.Link,
	))
	if err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", notification.UserID, err)
	}

	*notification = *created
	return nil
}

// ListForUser returns one page of a user's notifications, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, int, error) {
	where := sq.And{sq.Eq{"user_id": userID}}
	if unreadOnly {
		where = append(where, sq.Eq{"is_read": false})
	}

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_notifications").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	notifications, err := queryList(ctx, r.q, psql.Select(notificationColumns).
		From("dga_notifications").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanNotification)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	return notifications, total, nil
}

// MarkRead stamps read_at on a notification owned by userID
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE dga_notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, $1), updated_at = NOW()
		WHERE notification_id = $2 AND user_id = $3
	`

	result, err := r.q.Exec(ctx, query, at, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}
