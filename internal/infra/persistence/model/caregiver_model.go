package model

import (
	"time"

	"github.com/google/uuid"
)

// CaregiverModel is the GORM-specific struct for the 'caregivers' table.
type CaregiverModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PatientID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CaregiverUserID *uuid.UUID `gorm:"type:uuid;index"`
	Name            string     `gorm:"type:text;not null"`
	Phone           string     `gorm:"type:text"`
	Email           string     `gorm:"type:text"`
	Relationship    string     `gorm:"type:text"`
	IsActive        bool       `gorm:"not null;default:true"`

	CanViewMedications bool `gorm:"not null;default:false"`
	CanViewDoses       bool `gorm:"not null;default:false"`
	NotifyMissedDose   bool `gorm:"not null;default:false"`
	NotifyLowStock     bool `gorm:"not null;default:false"`
	NotifyEmergency    bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CaregiverModel) TableName() string {
	return "caregivers"
}
