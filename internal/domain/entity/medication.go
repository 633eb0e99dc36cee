// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoseUnit enumerates the units a medication dose can be prescribed in.
type DoseUnit string

const (
	DoseUnitMg      DoseUnit = "mg"
	DoseUnitMl      DoseUnit = "ml"
	DoseUnitTablet  DoseUnit = "tablet"
	DoseUnitDrop    DoseUnit = "drop"
	DoseUnitCapsule DoseUnit = "capsule"
	DoseUnitGram    DoseUnit = "gram"
	DoseUnitUnit    DoseUnit = "unit"
)

// MedicationStatus describes whether a medication is currently being taken.
type MedicationStatus string

const (
	MedicationStatusActive    MedicationStatus = "active"
	MedicationStatusInactive  MedicationStatus = "inactive"
	MedicationStatusSuspended MedicationStatus = "suspended"
)

// Frequency describes how often a medication is taken, e.g. {"daily", 2}
// for twice a day or {"weekly", 1} for once a week.
type Frequency struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Medication represents one prescribed medication for a user, including its
// dosing schedule and optional stock tracking.
type Medication struct {
	ID                uuid.UUID        `json:"id"`
	UserID            uuid.UUID        `json:"user_id"`
	Name              string           `json:"name"`
	GenericName       string           `json:"generic_name,omitempty"`
	DoseAmount        float64          `json:"dose_amount"`
	DoseUnit          DoseUnit         `json:"dose_unit"`
	Frequency         Frequency        `json:"frequency"`
	Schedules         []string         `json:"schedules"` // ordered clock times, "HH:MM"
	Instructions      []string         `json:"instructions,omitempty"`
	Status            MedicationStatus `json:"status"`
	Stock             *int             `json:"stock,omitempty"`
	StockUnit         string           `json:"stock_unit,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
	IsCritical        bool             `json:"is_critical"`
	AlertDelayMinutes int              `json:"alert_delay_minutes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// IsLowOnStock reports whether stock tracking is enabled and the remaining
// stock is at or below the configured threshold.
func (m *Medication) IsLowOnStock() bool {
	if m.Stock == nil || m.LowStockThreshold == nil {
		return false
	}

	return *m.Stock <= *m.LowStockThreshold
}

// Validate checks the medication invariants: non-negative stock when present
// and a non-empty schedule set while the medication is active.
func (m *Medication) Validate() error {
	if m.Name == "" {
		return ErrMedicationNameRequired
	}
	if m.Stock != nil && *m.Stock < 0 {
		return ErrNegativeStock
	}
	if m.Status == MedicationStatusActive && len(m.Schedules) == 0 {
		return ErrActiveWithoutSchedule
	}

	return nil
}
