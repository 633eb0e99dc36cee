package usecase

import (
	"context"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// SyncUsecase serves the device agents' mirror endpoints. Pulls return whole
// collections ordered by creation time descending; pushes upsert or delete
// single records the device authored, always scoped to the authenticated
// user.
type SyncUsecase interface {
	PullMedications(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error)
	UpsertMedication(ctx context.Context, userID uuid.UUID, med *entity.Medication) error
	// DeleteMedication removes the parent row only. The device deletes the
	// dependent dose rows first via DeleteDosesByMedication.
	DeleteMedication(ctx context.Context, userID, medicationID uuid.UUID) error
	DeleteDosesByMedication(ctx context.Context, userID, medicationID uuid.UUID) error

	PullDoses(ctx context.Context, userID uuid.UUID) ([]*entity.DoseRecord, error)
	UpsertDose(ctx context.Context, userID uuid.UUID, record *entity.DoseRecord) error
	DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error

	PullVoiceNotes(ctx context.Context, userID uuid.UUID) ([]*entity.VoiceNote, error)
	UpsertVoiceNote(ctx context.Context, userID uuid.UUID, note *entity.VoiceNote) error
	DeleteVoiceNote(ctx context.Context, userID, noteID uuid.UUID) error

	PullNotifications(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error)
}
