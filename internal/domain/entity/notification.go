// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags the event that produced a notification.
type NotificationType string

const (
	NotificationCaregiverViewed NotificationType = "caregiver_viewed"
	NotificationCaregiverAlert  NotificationType = "caregiver_alert"
	NotificationReminder        NotificationType = "reminder"
	NotificationMissedDose      NotificationType = "missed_dose"
	NotificationLowStock        NotificationType = "low_stock"
	NotificationSystem          NotificationType = "system"
)

// Notification priorities. Higher sorts first when listing.
const (
	PriorityLow      = 0
	PriorityNormal   = 1
	PriorityHigh     = 2
	PriorityCritical = 3
)

// Notification is addressed to a single user. It is created by a caregiver-
// facing action or a scheduled check, mutated only by the read-flag
// transition and never otherwise updated.
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	Priority  int               `json:"priority"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
