package entity

import "errors"

// Validation errors shared by entity invariants.
var (
	ErrMedicationNameRequired = errors.New("medication name is required")
	ErrNegativeStock          = errors.New("stock must be non-negative")
	ErrActiveWithoutSchedule  = errors.New("an active medication requires at least one scheduled time")
	ErrInvalidDoseStatus      = errors.New("invalid dose status")
)
