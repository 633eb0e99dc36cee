// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Caregiver is a permissioned link from a caregiver to a patient account.
// The patient owns the record; the per-relationship boolean flags gate which
// subsets of the patient's data the caregiver may see and which alert types
// they receive.
type Caregiver struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	CaregiverUserID *uuid.UUID `json:"caregiver_user_id,omitempty"` // linked account, nil until the caregiver registers
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Relationship    string     `json:"relationship,omitempty"` // e.g. "spouse", "child", "nurse"
	IsActive        bool       `json:"is_active"`

	CanViewMedications bool `json:"can_view_medications"`
	CanViewDoses       bool `json:"can_view_doses"`
	NotifyMissedDose   bool `json:"notify_missed_dose"`
	NotifyLowStock     bool `json:"notify_low_stock"`
	NotifyEmergency    bool `json:"notify_emergency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
