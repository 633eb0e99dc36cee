// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user row is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email unique constraint is hit.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// CreateUser persists a new user with the given bcrypt password hash.
	CreateUser(ctx context.Context, user *entity.User, passwordHash string) error

	// FindUserByID retrieves a user by its unique ID.
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindUserByEmail retrieves a user by email together with the stored
	// password hash for credential verification.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, string, error)

	// SetOnboardingCompleted flips the onboarding-completed flag.
	SetOnboardingCompleted(ctx context.Context, id uuid.UUID, completed bool) error

	// SetDeviceToken stores the user's current push target. An empty token
	// unregisters the device.
	SetDeviceToken(ctx context.Context, id uuid.UUID, token string) error
}
