package service

import "context"

// AdherenceEvent is published whenever the scheduled checks raise an alert or
// a dose is logged, for downstream consumers (analytics, audit).
type AdherenceEvent struct {
	Type         string `json:"type"` // dose_logged, missed_dose, low_stock, caregiver_alert
	UserID       string `json:"user_id"`
	MedicationID string `json:"medication_id,omitempty"`
	Detail       string `json:"detail,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

// EventPublisher defines the interface for publishing adherence events.
type EventPublisher interface {
	// PublishAdherenceEvent publishes one event. Implementations must not
	// block the primary operation on delivery guarantees.
	PublishAdherenceEvent(ctx context.Context, event *AdherenceEvent) error

	// Close releases publisher resources.
	Close() error
}
