// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCaregiverNotFound is returned when a caregiver row is not found.
var ErrCaregiverNotFound = errors.New("caregiver not found")

// CaregiverRepository defines the interface for caregiver link persistence.
type CaregiverRepository interface {
	// CreateCaregiver persists a new caregiver link owned by a patient.
	CreateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error

	// UpdateCaregiver overwrites an existing caregiver link.
	UpdateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error

	// DeleteCaregiver removes a caregiver link.
	DeleteCaregiver(ctx context.Context, id uuid.UUID) error

	// FindCaregiverByID retrieves a caregiver link by its unique ID.
	FindCaregiverByID(ctx context.Context, id uuid.UUID) (*entity.Caregiver, error)

	// FindCaregiversByPatient retrieves all caregiver links owned by a
	// patient, ordered by creation time descending.
	FindCaregiversByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Caregiver, error)

	// FindActiveRelationship retrieves the active link between a caregiver
	// account and a patient, or ErrCaregiverNotFound when none exists.
	FindActiveRelationship(ctx context.Context, caregiverUserID, patientID uuid.UUID) (*entity.Caregiver, error)
}
