// Package model holds the GORM-specific structs mapping domain entities to
// database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the GORM-specific struct for the 'users' table.
type UserModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email               string    `gorm:"type:text;not null;uniqueIndex"`
	Name                string    `gorm:"type:text;not null"`
	Phone               string    `gorm:"type:text"`
	PasswordHash        string    `gorm:"type:text;not null"`
	DeviceToken         string    `gorm:"type:text"`
	OnboardingCompleted bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
