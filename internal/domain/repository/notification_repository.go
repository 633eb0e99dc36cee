// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// CreateNotification persists a new notification addressed to a user.
	CreateNotification(ctx context.Context, notification *entity.Notification) error

	// FindNotificationsByUser retrieves a user's notifications ordered by
	// priority descending then creation time descending. unreadOnly filters
	// to unread rows; limit <= 0 means no limit.
	FindNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*entity.Notification, error)

	// HasUnreadOfType reports whether the user already has an unread
	// notification of the given type referencing refID in its payload. Used
	// to avoid re-alerting on every scheduled check pass.
	HasUnreadOfType(ctx context.Context, userID uuid.UUID, typ entity.NotificationType, refID string) (bool, error)

	// MarkRead sets the read flag on one notification owned by the user.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead sets the read flag on all of the user's notifications and
	// returns the number of rows affected.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
