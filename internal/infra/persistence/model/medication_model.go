package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MedicationModel is the GORM-specific struct for the 'medications' table.
// Schedules and Instructions are stored as JSON arrays.
type MedicationModel struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name              string         `gorm:"type:text;not null"`
	GenericName       string         `gorm:"type:text"`
	DoseAmount        float64        `gorm:"not null"`
	DoseUnit          string         `gorm:"type:text;not null"`
	FrequencyType     string         `gorm:"type:text;not null"`
	FrequencyValue    int            `gorm:"not null;default:1"`
	Schedules         datatypes.JSON `gorm:"type:jsonb"`
	Instructions      datatypes.JSON `gorm:"type:jsonb"`
	Status            string         `gorm:"type:text;not null;default:'active'"`
	Stock             *int
	StockUnit         string `gorm:"type:text"`
	LowStockThreshold *int
	IsCritical        bool `gorm:"not null;default:false"`
	AlertDelayMinutes int  `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (MedicationModel) TableName() string {
	return "medications"
}
