package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/domain/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// doseHistoryDays bounds the dose history returned in a patient view.
const doseHistoryDays = 7

// caregiverService implements the CaregiverUsecase interface.
type caregiverService struct {
	caregiverRepo    repository.CaregiverRepository
	medicationRepo   repository.MedicationRepository
	doseRepo         repository.DoseRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	sms              usecase.SMSUsecase
	publisher        service.EventPublisher
	push             service.PushService
	logger           *slog.Logger
}

// CaregiverServiceParams holds dependencies for CaregiverService, injected by Fx.
type CaregiverServiceParams struct {
	fx.In

	CaregiverRepo    repository.CaregiverRepository
	MedicationRepo   repository.MedicationRepository
	DoseRepo         repository.DoseRepository
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	SMS              usecase.SMSUsecase
	Publisher        service.EventPublisher
	Push             service.PushService `optional:"true"`
	Logger           *slog.Logger
}

// NewCaregiverService is the constructor for caregiverService.
func NewCaregiverService(params CaregiverServiceParams) usecase.CaregiverUsecase {
	return &caregiverService{
		caregiverRepo:    params.CaregiverRepo,
		medicationRepo:   params.MedicationRepo,
		doseRepo:         params.DoseRepo,
		userRepo:         params.UserRepo,
		notificationRepo: params.NotificationRepo,
		sms:              params.SMS,
		publisher:        params.Publisher,
		push:             params.Push,
		logger:           params.Logger,
	}
}

func (srv *caregiverService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateCaregiver persists a new caregiver link owned by the patient.
func (srv *caregiverService) CreateCaregiver(ctx context.Context, patientID uuid.UUID, input *usecase.CaregiverInput) (*entity.Caregiver, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("caregiver name is required")
	}

	caregiver := buildCaregiverEntity(patientID, input)

	if err := srv.caregiverRepo.CreateCaregiver(ctx, caregiver); err != nil {
		return nil, errors.Wrap(err, "failed to create caregiver")
	}

	srv.log(ctx).Info("Caregiver created", slog.Any("patientID", patientID), slog.Any("caregiverID", caregiver.ID))

	return caregiver, nil
}

// UpdateCaregiver overwrites a caregiver link the patient owns.
func (srv *caregiverService) UpdateCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID, input *usecase.CaregiverInput) (*entity.Caregiver, error) {
	existing, err := srv.loadOwnedCaregiver(ctx, patientID, caregiverID)
	if err != nil {
		return nil, err
	}

	caregiver := buildCaregiverEntity(patientID, input)
	caregiver.ID = caregiverID
	caregiver.CaregiverUserID = existing.CaregiverUserID
	caregiver.CreatedAt = existing.CreatedAt

	if err := srv.caregiverRepo.UpdateCaregiver(ctx, caregiver); err != nil {
		if errors.Is(err, repository.ErrCaregiverNotFound) {
			return nil, domainerrors.ErrCaregiverNotFound
		}

		return nil, errors.Wrap(err, "failed to update caregiver")
	}

	return caregiver, nil
}

// DeleteCaregiver removes a caregiver link the patient owns.
func (srv *caregiverService) DeleteCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error {
	if _, err := srv.loadOwnedCaregiver(ctx, patientID, caregiverID); err != nil {
		return err
	}

	if err := srv.caregiverRepo.DeleteCaregiver(ctx, caregiverID); err != nil {
		if errors.Is(err, repository.ErrCaregiverNotFound) {
			return domainerrors.ErrCaregiverNotFound
		}

		return errors.Wrap(err, "failed to delete caregiver")
	}

	return nil
}

// ListCaregivers retrieves the caregiver links the patient owns.
func (srv *caregiverService) ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*entity.Caregiver, error) {
	caregivers, err := srv.caregiverRepo.FindCaregiversByPatient(ctx, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list caregivers")
	}

	return caregivers, nil
}

// Alert dispatches a patient-initiated help alert to one caregiver: a
// notification row for the caregiver's linked account when present, and an
// SMS when the caregiver opted into emergency alerts.
func (srv *caregiverService) Alert(ctx context.Context, patientID, caregiverID uuid.UUID, input *usecase.AlertInput) (*usecase.AlertOutput, error) {
	caregiver, err := srv.loadOwnedCaregiver(ctx, patientID, caregiverID)
	if err != nil {
		return nil, err
	}
	if !caregiver.IsActive {
		return nil, domainerrors.ErrCaregiverNotFound.WrapMessage("caregiver link is inactive")
	}

	patient, err := srv.userRepo.FindUserByID(ctx, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load patient for alert")
	}

	message := input.Message
	if message == "" {
		message = fmt.Sprintf("%s needs your help", patient.Name)
	}

	output := &usecase.AlertOutput{}

	if caregiver.CaregiverUserID != nil {
		notification := &entity.Notification{
			UserID:   *caregiver.CaregiverUserID,
			Type:     entity.NotificationCaregiverAlert,
			Title:    "Help requested",
			Message:  message,
			Priority: entity.PriorityCritical,
			Payload: map[string]string{
				"ref_id":     patientID.String(),
				"patient_id": patientID.String(),
			},
		}
		if err := srv.notificationRepo.CreateNotification(ctx, notification); err != nil {
			return nil, errors.Wrap(err, "failed to create alert notification")
		}
		output.Notification = notification
		srv.pushToUser(ctx, *caregiver.CaregiverUserID, notification)
	}

	if caregiver.NotifyEmergency && caregiver.Phone != "" {
		smsOut, smsErr := srv.sms.SendSMS(ctx, patientID, &usecase.SendSMSInput{
			To:       caregiver.Phone,
			Body:     message,
			Priority: string(service.SMSPriorityCritical),
		})
		if smsErr != nil {
			// The notification row already landed; SMS failure is reported
			// in logs but does not fail the alert.
			srv.log(ctx).Error("Alert SMS failed",
				slog.Any("caregiverID", caregiverID), slog.Any("error", smsErr))
		} else {
			output.SMSMessageID = smsOut.MessageID
		}
	}

	if pubErr := srv.publisher.PublishAdherenceEvent(ctx, &service.AdherenceEvent{
		Type:      "caregiver_alert",
		UserID:    patientID.String(),
		Detail:    caregiverID.String(),
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
	}); pubErr != nil {
		srv.log(ctx).Warn("Failed to publish alert event", slog.Any("error", pubErr))
	}

	srv.log(ctx).Info("Caregiver alert dispatched",
		slog.Any("patientID", patientID), slog.Any("caregiverID", caregiverID))

	return output, nil
}

// PatientView returns the permission-gated subsets of the patient's data for
// the calling caregiver and best-effort notifies the patient of the view.
func (srv *caregiverService) PatientView(ctx context.Context, callerUserID, patientID uuid.UUID) (*usecase.PatientViewOutput, error) {
	relationship, err := srv.caregiverRepo.FindActiveRelationship(ctx, callerUserID, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrCaregiverNotFound) {
			return nil, domainerrors.ErrNoCaregiverRelationship
		}

		return nil, errors.Wrap(err, "failed to check caregiver relationship")
	}

	patient, err := srv.userRepo.FindUserByID(ctx, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load patient")
	}

	output := &usecase.PatientViewOutput{Patient: patient}

	if relationship.CanViewMedications {
		meds, err := srv.medicationRepo.FindMedicationsByUser(ctx, patientID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load patient medications")
		}
		output.Medications = meds
	}

	// can_view_doses = false never yields dose history, independent of the
	// medications flag.
	if relationship.CanViewDoses {
		to := time.Now()
		from := to.AddDate(0, 0, -doseHistoryDays)
		doses, err := srv.doseRepo.FindDoseRecordsByUser(ctx, patientID,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to load patient dose history")
		}
		output.Doses = doses
	}

	// The viewed notification is best-effort: failure is logged, never
	// surfaced, so it cannot fail the view itself.
	viewed := &entity.Notification{
		UserID:   patientID,
		Type:     entity.NotificationCaregiverViewed,
		Title:    "Your caregiver viewed your data",
		Message:  fmt.Sprintf("%s viewed your medication data", relationship.Name),
		Priority: entity.PriorityLow,
		Payload: map[string]string{
			"ref_id":       relationship.ID.String(),
			"caregiver_id": relationship.ID.String(),
		},
	}
	if notifyErr := srv.notificationRepo.CreateNotification(ctx, viewed); notifyErr != nil {
		srv.log(ctx).Warn("Failed to create caregiver-viewed notification",
			slog.Any("patientID", patientID), slog.Any("error", notifyErr))
	} else {
		srv.pushToUser(ctx, patientID, viewed)
	}

	srv.log(ctx).Info("Patient view served",
		slog.Any("patientID", patientID),
		slog.Any("caregiverUserID", callerUserID),
		slog.Bool("medications", relationship.CanViewMedications),
		slog.Bool("doses", relationship.CanViewDoses),
	)

	return output, nil
}

func (srv *caregiverService) loadOwnedCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) (*entity.Caregiver, error) {
	caregiver, err := srv.caregiverRepo.FindCaregiverByID(ctx, caregiverID)
	if err != nil {
		if errors.Is(err, repository.ErrCaregiverNotFound) {
			return nil, domainerrors.ErrCaregiverNotFound
		}

		return nil, errors.Wrap(err, "failed to find caregiver")
	}

	if caregiver.PatientID != patientID {
		return nil, domainerrors.ErrCaregiverNotFound
	}

	return caregiver, nil
}

// pushToUser mirrors a notification to the user's registered device.
// Best-effort: a missing push service or token never fails the caller.
func (srv *caregiverService) pushToUser(ctx context.Context, userID uuid.UUID, notification *entity.Notification) {
	if srv.push == nil {
		return
	}

	user, err := srv.userRepo.FindUserByID(ctx, userID)
	if err != nil || user.DeviceToken == "" {
		return
	}

	if pushErr := srv.push.SendPush(ctx, user.DeviceToken,
		notification.Title, notification.Message, notification.Payload); pushErr != nil {
		srv.log(ctx).Warn("Failed to push notification",
			slog.Any("userID", userID), slog.Any("error", pushErr))
	}
}

func buildCaregiverEntity(patientID uuid.UUID, input *usecase.CaregiverInput) *entity.Caregiver {
	return &entity.Caregiver{
		PatientID:          patientID,
		Name:               input.Name,
		Phone:              input.Phone,
		Email:              input.Email,
		Relationship:       input.Relationship,
		IsActive:           input.IsActive,
		CanViewMedications: input.CanViewMedications,
		CanViewDoses:       input.CanViewDoses,
		NotifyMissedDose:   input.NotifyMissedDose,
		NotifyLowStock:     input.NotifyLowStock,
		NotifyEmergency:    input.NotifyEmergency,
	}
}
