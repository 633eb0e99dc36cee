package usecase

import (
	"context"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CaregiverInput defines the writable fields of a caregiver link. Used for
// both create and update.
type CaregiverInput struct {
	Name               string
	Phone              string
	Email              string
	Relationship       string
	IsActive           bool
	CanViewMedications bool
	CanViewDoses       bool
	NotifyMissedDose   bool
	NotifyLowStock     bool
	NotifyEmergency    bool
}

// AlertInput carries a caregiver-initiated help alert.
type AlertInput struct {
	Message string
}

// --- Output DTOs ---

// AlertOutput reports how the alert was delivered.
type AlertOutput struct {
	Notification *entity.Notification
	SMSMessageID string // empty when no SMS was sent
}

// PatientViewOutput is the permission-gated subset of a patient's data
// returned to a caregiver. Fields the relationship does not permit stay nil.
type PatientViewOutput struct {
	Patient     *entity.User
	Medications []*entity.Medication
	Doses       []*entity.DoseRecord
}

// CaregiverUsecase defines the interface for caregiver business operations.
type CaregiverUsecase interface {
	CreateCaregiver(ctx context.Context, patientID uuid.UUID, input *CaregiverInput) (*entity.Caregiver, error)
	UpdateCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID, input *CaregiverInput) (*entity.Caregiver, error)
	DeleteCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error
	ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*entity.Caregiver, error)

	// Alert creates a caregiver-alert notification for the patient and, when
	// the caregiver opted into emergency alerts and has a phone number, also
	// dispatches an SMS.
	Alert(ctx context.Context, patientID, caregiverID uuid.UUID, input *AlertInput) (*AlertOutput, error)

	// PatientView returns the subsets of the patient's data the caller's
	// active relationship permits, and best-effort notifies the patient that
	// their data was viewed.
	PatientView(ctx context.Context, callerUserID, patientID uuid.UUID) (*PatientViewOutput, error)
}
