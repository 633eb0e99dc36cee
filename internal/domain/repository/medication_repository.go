// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMedicationNotFound is returned when a medication row is not found.
var ErrMedicationNotFound = errors.New("medication not found")

// MedicationRepository defines the interface for medication persistence.
type MedicationRepository interface {
	// CreateMedication persists a new medication.
	CreateMedication(ctx context.Context, med *entity.Medication) error

	// UpdateMedication overwrites an existing medication.
	UpdateMedication(ctx context.Context, med *entity.Medication) error

	// DeleteMedication removes a medication row. Dependent dose records are
	// the caller's responsibility (see TransactionManager).
	DeleteMedication(ctx context.Context, id uuid.UUID) error

	// FindMedicationByID retrieves a medication by its unique ID.
	FindMedicationByID(ctx context.Context, id uuid.UUID) (*entity.Medication, error)

	// FindMedicationsByUser retrieves all medications for a user ordered by
	// creation time descending.
	FindMedicationsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error)

	// FindActiveMedications retrieves every active medication across all
	// users. Used by the scheduled missed-dose and reminder checks.
	FindActiveMedications(ctx context.Context) ([]*entity.Medication, error)
}
