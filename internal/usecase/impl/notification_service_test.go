package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	mockRepo "medtrack/internal/mocks/repository"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestNotificationService(t *testing.T) (usecase.NotificationUsecase, *mockRepo.MockNotificationRepository) {
	t.Helper()

	notificationRepo := mockRepo.NewMockNotificationRepository(t)
	service := NewNotificationService(NotificationServiceParams{
		NotificationRepo: notificationRepo,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return service, notificationRepo
}

func TestListNotifications_DefaultLimitApplied(t *testing.T) {
	service, notificationRepo := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	notificationRepo.On("FindNotificationsByUser", ctx, userID, defaultNotificationLimit, false).
		Return([]*entity.Notification{}, nil)

	_, err := service.ListNotifications(ctx, userID, &usecase.ListNotificationsInput{})
	require.NoError(t, err)
}

func TestListNotifications_ExplicitLimitAndUnreadFilter(t *testing.T) {
	service, notificationRepo := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	notificationRepo.On("FindNotificationsByUser", ctx, userID, 5, true).
		Return([]*entity.Notification{{UserID: userID}}, nil)

	notifications, err := service.ListNotifications(ctx, userID, &usecase.ListNotificationsInput{
		Limit:      5,
		UnreadOnly: true,
	})
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestMarkRead_UnknownNotification(t *testing.T) {
	service, notificationRepo := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	notificationID := uuid.New()

	notificationRepo.On("MarkRead", ctx, userID, notificationID).
		Return(repository.ErrNotificationNotFound)

	err := service.MarkRead(ctx, userID, notificationID)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestMarkAllRead_ReturnsAffectedCount(t *testing.T) {
	service, notificationRepo := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	notificationRepo.On("MarkAllRead", ctx, userID).Return(int64(3), nil)

	updated, err := service.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}
