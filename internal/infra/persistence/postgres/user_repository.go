// Package postgres contains the concrete implementation of the persistence
// layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// CreateUser persists a new user with the given bcrypt password hash.
func (repo *userRepository) CreateUser(ctx context.Context, user *entity.User, passwordHash string) error {
	userM := fromUserDomain(user)
	userM.PasswordHash = passwordHash

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindUserByID retrieves a user by its unique ID.
func (repo *userRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindUserByEmail retrieves a user by email together with the password hash.
func (repo *userRepository) FindUserByEmail(ctx context.Context, email string) (*entity.User, string, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", repository.ErrUserNotFound
		}

		return nil, "", errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), userM.PasswordHash, nil
}

// SetOnboardingCompleted flips the onboarding-completed flag.
func (repo *userRepository) SetOnboardingCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("onboarding_completed", completed)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update onboarding flag")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SetDeviceToken stores the user's current push target. An empty token
// unregisters the device.
func (repo *userRepository) SetDeviceToken(ctx context.Context, id uuid.UUID, token string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("device_token", token)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update device token")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                  data.ID,
		Email:               data.Email,
		Name:                data.Name,
		Phone:               data.Phone,
		DeviceToken:         data.DeviceToken,
		OnboardingCompleted: data.OnboardingCompleted,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                  data.ID,
		Email:               data.Email,
		Name:                data.Name,
		Phone:               data.Phone,
		DeviceToken:         data.DeviceToken,
		OnboardingCompleted: data.OnboardingCompleted,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
