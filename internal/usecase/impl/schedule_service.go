package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medtrack/config"
	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/repository"
	"medtrack/internal/domain/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// scheduleService implements the ScheduleUsecase interface. Both check passes
// walk every active medication's schedule against today's dose records; they
// collect per-medication failures instead of aborting the whole pass.
type scheduleService struct {
	medicationRepo   repository.MedicationRepository
	doseRepo         repository.DoseRepository
	caregiverRepo    repository.CaregiverRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	sender           service.SMSService
	publisher        service.EventPublisher
	push             service.PushService
	missedDoseGrace  time.Duration
	reminderLead     time.Duration
	logger           *slog.Logger
}

// ScheduleServiceParams holds dependencies for ScheduleService, injected by Fx.
type ScheduleServiceParams struct {
	fx.In

	MedicationRepo   repository.MedicationRepository
	DoseRepo         repository.DoseRepository
	CaregiverRepo    repository.CaregiverRepository
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Sender           service.SMSService
	Publisher        service.EventPublisher
	Push             service.PushService `optional:"true"`
	Config           *config.Config
	Logger           *slog.Logger
}

// NewScheduleService is the constructor for scheduleService.
func NewScheduleService(params ScheduleServiceParams) usecase.ScheduleUsecase {
	return &scheduleService{
		medicationRepo:   params.MedicationRepo,
		doseRepo:         params.DoseRepo,
		caregiverRepo:    params.CaregiverRepo,
		notificationRepo: params.NotificationRepo,
		userRepo:         params.UserRepo,
		sender:           params.Sender,
		publisher:        params.Publisher,
		push:             params.Push,
		missedDoseGrace:  params.Config.Cron.MissedDoseGrace,
		reminderLead:     params.Config.Cron.ReminderLead,
		logger:           params.Logger,
	}
}

func (srv *scheduleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RunMissedDoseCheck finds today's scheduled intakes whose alert window has
// elapsed with no taken or skipped record, alerts the patient, texts opted-in
// caregivers of critical medications, and raises low-stock notifications.
func (srv *scheduleService) RunMissedDoseCheck(ctx context.Context, now time.Time) (*usecase.CheckResult, error) {
	start := time.Now()
	result := &usecase.CheckResult{}

	meds, err := srv.medicationRepo.FindActiveMedications(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active medications")
	}

	date := now.Format("2006-01-02")

	for _, med := range meds {
		grace := srv.missedDoseGrace
		if med.AlertDelayMinutes > 0 {
			grace = time.Duration(med.AlertDelayMinutes) * time.Minute
		}

		// Today's records for this medication, loaded once on the first
		// lapsed schedule instead of per intake.
		var dayRecords map[string]*entity.DoseRecord

		for _, scheduled := range med.Schedules {
			scheduledAt, parseErr := clockTimeOn(now, scheduled)
			if parseErr != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("medication %s: bad schedule %q", med.ID, scheduled))

				continue
			}
			if now.Sub(scheduledAt) < grace {
				continue
			}

			result.Checked++

			if dayRecords == nil {
				records, loadErr := srv.doseRepo.FindDoseRecordsByMedicationAndDate(ctx, med.ID, date)
				if loadErr != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("medication %s: failed to load dose records: %v", med.ID, loadErr))

					break
				}
				dayRecords = make(map[string]*entity.DoseRecord, len(records))
				for _, record := range records {
					dayRecords[record.ScheduledTime] = record
				}
			}

			// Pending and postponed records still count as missed once the
			// window lapses.
			if record, ok := dayRecords[scheduled]; ok && record.Resolved() {
				continue
			}

			if alertErr := srv.alertMissedDose(ctx, med, date, scheduled); alertErr != nil {
				result.Errors = append(result.Errors, alertErr.Error())

				continue
			}
			result.Alerted++
		}

		if med.IsLowOnStock() {
			alerted, stockErr := srv.alertLowStock(ctx, med)
			if stockErr != nil {
				result.Errors = append(result.Errors, stockErr.Error())
			} else if alerted {
				result.Alerted++
			}
		}
	}

	result.Elapsed = time.Since(start)

	srv.log(ctx).Info("Missed-dose check completed",
		slog.Int("checked", result.Checked),
		slog.Int("alerted", result.Alerted),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// RunReminderCheck finds scheduled intakes coming up within the lead window
// that have no dose record yet and creates reminder notifications.
func (srv *scheduleService) RunReminderCheck(ctx context.Context, now time.Time) (*usecase.CheckResult, error) {
	start := time.Now()
	result := &usecase.CheckResult{}

	meds, err := srv.medicationRepo.FindActiveMedications(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active medications")
	}

	date := now.Format("2006-01-02")

	for _, med := range meds {
		for _, scheduled := range med.Schedules {
			scheduledAt, parseErr := clockTimeOn(now, scheduled)
			if parseErr != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("medication %s: bad schedule %q", med.ID, scheduled))

				continue
			}

			until := scheduledAt.Sub(now)
			if until <= 0 || until > srv.reminderLead {
				continue
			}

			result.Checked++

			_, findErr := srv.doseRepo.FindDoseRecord(ctx, med.ID, date, scheduled)
			if findErr == nil {
				// Already logged in some form; no reminder needed.
				continue
			}
			if !errors.Is(findErr, repository.ErrDoseRecordNotFound) {
				result.Errors = append(result.Errors, findErr.Error())

				continue
			}

			refID := intakeRef(med.ID.String(), date, scheduled) + "|reminder"
			already, dupErr := srv.notificationRepo.HasUnreadOfType(ctx, med.UserID, entity.NotificationReminder, refID)
			if dupErr != nil {
				result.Errors = append(result.Errors, dupErr.Error())

				continue
			}
			if already {
				continue
			}

			notification := &entity.Notification{
				UserID:   med.UserID,
				Type:     entity.NotificationReminder,
				Title:    "Medication reminder",
				Message:  fmt.Sprintf("%s is due at %s", med.Name, scheduled),
				Priority: entity.PriorityNormal,
				Payload: map[string]string{
					"ref_id":         refID,
					"medication_id":  med.ID.String(),
					"scheduled_time": scheduled,
					"date":           date,
				},
			}
			if createErr := srv.notificationRepo.CreateNotification(ctx, notification); createErr != nil {
				result.Errors = append(result.Errors, createErr.Error())

				continue
			}
			srv.pushToUser(ctx, med.UserID, notification)
			result.Alerted++
		}
	}

	result.Elapsed = time.Since(start)

	srv.log(ctx).Info("Reminder check completed",
		slog.Int("checked", result.Checked),
		slog.Int("alerted", result.Alerted),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

func (srv *scheduleService) alertMissedDose(ctx context.Context, med *entity.Medication, date, scheduled string) error {
	refID := intakeRef(med.ID.String(), date, scheduled)

	already, err := srv.notificationRepo.HasUnreadOfType(ctx, med.UserID, entity.NotificationMissedDose, refID)
	if err != nil {
		return errors.Wrapf(err, "medication %s: failed to check existing alert", med.ID)
	}
	if already {
		return nil
	}

	priority := entity.PriorityHigh
	if med.IsCritical {
		priority = entity.PriorityCritical
	}

	notification := &entity.Notification{
		UserID:   med.UserID,
		Type:     entity.NotificationMissedDose,
		Title:    "Missed dose",
		Message:  fmt.Sprintf("%s scheduled at %s was not logged", med.Name, scheduled),
		Priority: priority,
		Payload: map[string]string{
			"ref_id":         refID,
			"medication_id":  med.ID.String(),
			"scheduled_time": scheduled,
			"date":           date,
		},
	}
	if err := srv.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return errors.Wrapf(err, "medication %s: failed to create missed-dose notification", med.ID)
	}

	srv.pushToUser(ctx, med.UserID, notification)

	if med.IsCritical {
		srv.textCaregivers(ctx, med, scheduled)
	}

	if pubErr := srv.publisher.PublishAdherenceEvent(ctx, &service.AdherenceEvent{
		Type:         "missed_dose",
		UserID:       med.UserID.String(),
		MedicationID: med.ID.String(),
		Detail:       scheduled,
	}); pubErr != nil {
		srv.log(ctx).Warn("Failed to publish missed-dose event", slog.Any("error", pubErr))
	}

	return nil
}

// textCaregivers sends missed-dose texts to caregivers that opted in. These
// are system alerts, so they bypass the user's SMS credit accounting; SMS
// failures are logged and never fail the check pass.
func (srv *scheduleService) textCaregivers(ctx context.Context, med *entity.Medication, scheduled string) {
	caregivers, err := srv.caregiverRepo.FindCaregiversByPatient(ctx, med.UserID)
	if err != nil {
		srv.log(ctx).Error("Failed to load caregivers for missed-dose alert",
			slog.Any("medicationID", med.ID), slog.Any("error", err))

		return
	}

	for _, caregiver := range caregivers {
		if !caregiver.IsActive || !caregiver.NotifyMissedDose || caregiver.Phone == "" {
			continue
		}

		body := fmt.Sprintf("Critical medication %s scheduled at %s was missed", med.Name, scheduled)
		if _, sendErr := srv.sender.Send(ctx, caregiver.Phone, body, service.SMSPriorityUrgent); sendErr != nil {
			srv.log(ctx).Error("Failed to text caregiver",
				slog.Any("caregiverID", caregiver.ID), slog.Any("error", sendErr))
		}
	}
}

func (srv *scheduleService) alertLowStock(ctx context.Context, med *entity.Medication) (bool, error) {
	refID := med.ID.String()

	already, err := srv.notificationRepo.HasUnreadOfType(ctx, med.UserID, entity.NotificationLowStock, refID)
	if err != nil {
		return false, errors.Wrapf(err, "medication %s: failed to check low-stock alert", med.ID)
	}
	if already {
		return false, nil
	}

	notification := &entity.Notification{
		UserID:   med.UserID,
		Type:     entity.NotificationLowStock,
		Title:    "Low stock",
		Message:  fmt.Sprintf("%s is running low (%d %s left)", med.Name, *med.Stock, med.StockUnit),
		Priority: entity.PriorityNormal,
		Payload: map[string]string{
			"ref_id":        refID,
			"medication_id": med.ID.String(),
		},
	}
	if err := srv.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return false, errors.Wrapf(err, "medication %s: failed to create low-stock notification", med.ID)
	}

	if pubErr := srv.publisher.PublishAdherenceEvent(ctx, &service.AdherenceEvent{
		Type:         "low_stock",
		UserID:       med.UserID.String(),
		MedicationID: med.ID.String(),
	}); pubErr != nil {
		srv.log(ctx).Warn("Failed to publish low-stock event", slog.Any("error", pubErr))
	}

	return true, nil
}

// pushToUser mirrors a notification to the user's registered device.
// Best-effort: a missing push service, an unregistered device or a delivery
// failure never fails the check pass.
func (srv *scheduleService) pushToUser(ctx context.Context, userID uuid.UUID, notification *entity.Notification) {
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

// clockTimeOn resolves an "HH:MM" clock time onto the calendar date of ref.
func clockTimeOn(ref time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(ref.Year(), ref.Month(), ref.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, ref.Location()), nil
}

func intakeRef(medicationID, date, scheduled string) string {
	return fmt.Sprintf("%s|%s|%s", medicationID, date, scheduled)
}
