package impl

import (
	"context"
	"log/slog"

	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// defaultNotificationLimit caps an unbounded listing request.
const defaultNotificationLimit = 50

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		logger:           params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListNotifications retrieves the user's notifications, priority first.
func (srv *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, input *usecase.ListNotificationsInput) ([]*entity.Notification, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := srv.notificationRepo.FindNotificationsByUser(ctx, userID, limit, input.UnreadOnly)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// MarkRead transitions one notification's read flag.
func (srv *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := srv.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return domainerrors.ErrNotificationNotFound
		}

		return errors.Wrap(err, "failed to mark notification read")
	}

	return nil
}

// MarkAllRead transitions every unread notification of the user.
func (srv *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := srv.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark all notifications read")
	}

	srv.log(ctx).Debug("Marked notifications read", slog.Any("userID", userID), slog.Int64("count", count))

	return count, nil
}
