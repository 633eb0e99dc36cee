// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrVoiceNoteNotFound is returned when a voice note is not found.
var ErrVoiceNoteNotFound = errors.New("voice note not found")

// VoiceNoteFilter narrows a voice note listing. Zero values mean "no filter".
type VoiceNoteFilter struct {
	FromDate     string
	ToDate       string
	MedicationID *uuid.UUID
}

// VoiceNoteRepository defines the interface for voice note persistence.
type VoiceNoteRepository interface {
	// CreateVoiceNote persists a new voice note.
	CreateVoiceNote(ctx context.Context, note *entity.VoiceNote) error

	// UpsertVoiceNote inserts or replaces a voice note by id. Used by the
	// sync push path, where the device supplies the id.
	UpsertVoiceNote(ctx context.Context, note *entity.VoiceNote) error

	// DeleteVoiceNote removes a voice note owned by the user.
	DeleteVoiceNote(ctx context.Context, userID, id uuid.UUID) error

	// FindVoiceNotesByUser retrieves a user's voice notes matching the
	// filter, ordered by creation time descending.
	FindVoiceNotesByUser(ctx context.Context, userID uuid.UUID, filter VoiceNoteFilter) ([]*entity.VoiceNote, error)
}
