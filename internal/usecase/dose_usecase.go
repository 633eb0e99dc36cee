package usecase

import (
	"context"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LogDoseInput defines one dose status transition for a scheduled intake.
type LogDoseInput struct {
	MedicationID  uuid.UUID
	Date          string // "2006-01-02"
	ScheduledTime string // "HH:MM"
	Status        string
	TakenAt       *time.Time
}

// ListDosesInput narrows a dose record listing to an inclusive date range.
type ListDosesInput struct {
	FromDate string
	ToDate   string
}

// DoseUsecase defines the interface for dose record business operations.
type DoseUsecase interface {
	// LogDose upserts the record for one scheduled intake. Logging a dose as
	// taken decrements the medication's stock when stock tracking is enabled.
	LogDose(ctx context.Context, userID uuid.UUID, input *LogDoseInput) (*entity.DoseRecord, error)

	DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error
	ListDoses(ctx context.Context, userID uuid.UUID, input *ListDosesInput) ([]*entity.DoseRecord, error)
}
