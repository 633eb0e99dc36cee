package usecase

import (
	"context"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateVoiceNoteInput defines the data required to attach a voice note.
type CreateVoiceNoteInput struct {
	MedicationID    *uuid.UUID
	Date            string // "2006-01-02"
	DurationSeconds int
	Transcript      string
	AudioURL        string
}

// ListVoiceNotesInput narrows a voice note listing.
type ListVoiceNotesInput struct {
	FromDate     string
	ToDate       string
	MedicationID *uuid.UUID
}

// VoiceNoteUsecase defines the interface for voice note operations.
type VoiceNoteUsecase interface {
	CreateVoiceNote(ctx context.Context, userID uuid.UUID, input *CreateVoiceNoteInput) (*entity.VoiceNote, error)
	DeleteVoiceNote(ctx context.Context, userID, noteID uuid.UUID) error
	ListVoiceNotes(ctx context.Context, userID uuid.UUID, input *ListVoiceNotesInput) ([]*entity.VoiceNote, error)
}
