package postgres

import (
	"context"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateNotification persists a new notification addressed to a user.
func (repo *notificationRepository) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create notification")
	}

	notification.ID = notificationM.ID
	notification.CreatedAt = notificationM.CreatedAt

	return nil
}

// FindNotificationsByUser retrieves a user's notifications ordered by priority
// descending then creation time descending.
func (repo *notificationRepository) FindNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	query := repo.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.
		Order("priority DESC").
		Order("created_at DESC").
		Find(&notificationModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find notifications by user")
	}

	notifications := make([]*entity.Notification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications, nil
}

// HasUnreadOfType reports whether the user already has an unread notification
// of the given type referencing refID in its payload.
func (repo *notificationRepository) HasUnreadOfType(ctx context.Context, userID uuid.UUID, typ entity.NotificationType, refID string) (bool, error) {
	var count int64

	query := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ? AND type = ? AND read = ?", userID, string(typ), false)
	if refID != "" {
		query = query.Where("payload ->> 'ref_id' = ?", refID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count unread notifications")
	}

	return count > 0, nil
}

// MarkRead sets the read flag on one notification owned by the user.
func (repo *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark notification read")
	}

	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead sets the read flag on all of the user's notifications.
func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to mark all notifications read")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	if data == nil {
		return nil
	}

	return &entity.Notification{
		ID:        data.ID,
		UserID:    data.UserID,
		Type:      entity.NotificationType(data.Type),
		Title:     data.Title,
		Message:   data.Message,
		Read:      data.Read,
		Priority:  data.Priority,
		Payload:   payloadFromJSONMap(data.Payload),
		CreatedAt: data.CreatedAt,
	}
}

func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	if data == nil {
		return nil
	}

	return &model.NotificationModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Type:      string(data.Type),
		Title:     data.Title,
		Message:   data.Message,
		Read:      data.Read,
		Priority:  data.Priority,
		Payload:   payloadToJSONMap(data.Payload),
		CreatedAt: data.CreatedAt,
	}
}

func payloadToJSONMap(payload map[string]string) datatypes.JSONMap {
	if len(payload) == 0 {
		return nil
	}

	out := make(datatypes.JSONMap, len(payload))
	for key, value := range payload {
		out[key] = value
	}

	return out
}

func payloadFromJSONMap(raw datatypes.JSONMap) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	out := make(map[string]string, len(raw))
	for key, value := range raw {
		if str, ok := value.(string); ok {
			out[key] = str
		}
	}

	return out
}
