package usecase

import (
	"context"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ListNotificationsInput narrows a notification listing.
type ListNotificationsInput struct {
	Limit      int
	UnreadOnly bool
}

// NotificationUsecase defines the interface for notification operations.
type NotificationUsecase interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, input *ListNotificationsInput) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error

	// MarkAllRead returns the number of notifications transitioned.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
