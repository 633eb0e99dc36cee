// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// VoiceNote is a simple attachment-style record a user leaves against a day
// or a specific medication, e.g. "felt dizzy an hour after the morning dose".
type VoiceNote struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	MedicationID    *uuid.UUID `json:"medication_id,omitempty"`
	Date            string     `json:"date"` // calendar date, "2006-01-02"
	DurationSeconds int        `json:"duration_seconds"`
	Transcript      string     `json:"transcript,omitempty"`
	AudioURL        string     `json:"audio_url"`
	CreatedAt       time.Time  `json:"created_at"`
}
