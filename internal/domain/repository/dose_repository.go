// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDoseRecordNotFound is returned when a dose record is not found.
var ErrDoseRecordNotFound = errors.New("dose record not found")

// DoseRepository defines the interface for dose record persistence.
type DoseRepository interface {
	// UpsertDoseRecord inserts or replaces the record keyed on
	// (medication_id, date, scheduled_time).
	UpsertDoseRecord(ctx context.Context, dose *entity.DoseRecord) error

	// DeleteDoseRecord removes a single dose record owned by the user.
	DeleteDoseRecord(ctx context.Context, userID, id uuid.UUID) error

	// DeleteDoseRecordsByMedication removes every dose record of a
	// medication. Runs before the parent medication delete because the
	// backend does not cascade.
	DeleteDoseRecordsByMedication(ctx context.Context, medicationID uuid.UUID) error

	// FindDoseRecord retrieves the record for one scheduled intake, if any.
	FindDoseRecord(ctx context.Context, medicationID uuid.UUID, date, scheduledTime string) (*entity.DoseRecord, error)

	// FindDoseRecordsByUser retrieves a user's dose records within the
	// inclusive date range, ordered by creation time descending.
	FindDoseRecordsByUser(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]*entity.DoseRecord, error)

	// FindDoseRecordsByMedicationAndDate retrieves all records of one
	// medication on one calendar date.
	FindDoseRecordsByMedicationAndDate(ctx context.Context, medicationID uuid.UUID, date string) ([]*entity.DoseRecord, error)
}
