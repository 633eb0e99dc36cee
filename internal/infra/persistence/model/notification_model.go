package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationModel is the GORM-specific struct for the 'notifications' table.
type NotificationModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type      string            `gorm:"type:text;not null"`
	Title     string            `gorm:"type:text;not null"`
	Message   string            `gorm:"type:text"`
	Read      bool              `gorm:"not null;default:false"`
	Priority  int               `gorm:"not null;default:1"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}
