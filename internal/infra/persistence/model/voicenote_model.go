package model

import (
	"time"

	"github.com/google/uuid"
)

// VoiceNoteModel is the GORM-specific struct for the 'voice_notes' table.
type VoiceNoteModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	MedicationID    *uuid.UUID `gorm:"type:uuid;index"`
	Date            string     `gorm:"type:text;not null;index"`
	DurationSeconds int        `gorm:"not null;default:0"`
	Transcript      string     `gorm:"type:text"`
	AudioURL        string     `gorm:"type:text;not null"`
	CreatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (VoiceNoteModel) TableName() string {
	return "voice_notes"
}
