package usecase

import (
	"context"

	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// MedicationInput defines the writable fields of a medication. Used for both
// create and update.
type MedicationInput struct {
	Name              string
	GenericName       string
	DoseAmount        float64
	DoseUnit          string
	FrequencyType     string
	FrequencyValue    int
	Schedules         []string
	Instructions      []string
	Status            string
	Stock             *int
	StockUnit         string
	LowStockThreshold *int
	IsCritical        bool
	AlertDelayMinutes int
}

// MedicationUsecase defines the interface for medication business operations.
type MedicationUsecase interface {
	CreateMedication(ctx context.Context, userID uuid.UUID, input *MedicationInput) (*entity.Medication, error)
	UpdateMedication(ctx context.Context, userID, medicationID uuid.UUID, input *MedicationInput) (*entity.Medication, error)

	// DeleteMedication removes the medication and all of its dose records in
	// one transaction; the backend has no cascading deletes.
	DeleteMedication(ctx context.Context, userID, medicationID uuid.UUID) error

	GetMedication(ctx context.Context, userID, medicationID uuid.UUID) (*entity.Medication, error)
	ListMedications(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error)

	// ScanLabel extracts a medication draft from a label photo.
	ScanLabel(ctx context.Context, userID uuid.UUID, imageJPEG []byte) (*service.MedicationDraft, error)
}
