package model

import (
	"time"

	"github.com/google/uuid"
)

// DoseRecordModel is the GORM-specific struct for the 'dose_records' table.
// The composite unique index enforces at most one record per scheduled intake.
type DoseRecordModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicationID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_dose_intake"`
	Date          string    `gorm:"type:text;not null;uniqueIndex:idx_dose_intake"`
	ScheduledTime string    `gorm:"type:text;not null;uniqueIndex:idx_dose_intake"`
	Status        string    `gorm:"type:text;not null;default:'pending'"`
	TakenAt       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (DoseRecordModel) TableName() string {
	return "dose_records"
}
