// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoseStatus describes the lifecycle of a single scheduled dose.
type DoseStatus string

const (
	DoseStatusPending   DoseStatus = "pending"
	DoseStatusTaken     DoseStatus = "taken"
	DoseStatusSkipped   DoseStatus = "skipped"
	DoseStatusPostponed DoseStatus = "postponed"
)

// DoseRecord represents one scheduled intake of a medication on a calendar
// date. At most one record exists per (medication, date, scheduled time);
// the persistence layer upserts on that key.
type DoseRecord struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	MedicationID  uuid.UUID  `json:"medication_id"`
	ScheduledTime string     `json:"scheduled_time"` // clock time, "HH:MM"
	Date          string     `json:"date"`           // calendar date, "2006-01-02"
	Status        DoseStatus `json:"status"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Resolved reports whether the dose no longer needs attention from the
// missed-dose check (it was either taken or deliberately skipped).
func (d *DoseRecord) Resolved() bool {
	return d.Status == DoseStatusTaken || d.Status == DoseStatusSkipped
}
