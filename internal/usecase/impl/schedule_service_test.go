package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"medtrack/config"
	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/repository"
	mockRepo "medtrack/internal/mocks/repository"
	mockSvc "medtrack/internal/mocks/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scheduleFixtures holds the test dependencies for schedule service tests.
type scheduleFixtures struct {
	service          usecase.ScheduleUsecase
	medicationRepo   *mockRepo.MockMedicationRepository
	doseRepo         *mockRepo.MockDoseRepository
	caregiverRepo    *mockRepo.MockCaregiverRepository
	notificationRepo *mockRepo.MockNotificationRepository
	userRepo         *mockRepo.MockUserRepository
	sender           *mockSvc.MockSMSService
	push             *mockSvc.MockPushService
}

func createTestScheduleService(t *testing.T) scheduleFixtures {
	t.Helper()

	medicationRepo := mockRepo.NewMockMedicationRepository(t)
	doseRepo := mockRepo.NewMockDoseRepository(t)
	caregiverRepo := mockRepo.NewMockCaregiverRepository(t)
	notificationRepo := mockRepo.NewMockNotificationRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	sender := mockSvc.NewMockSMSService(t)
	push := mockSvc.NewMockPushService(t)

	service := NewScheduleService(ScheduleServiceParams{
		MedicationRepo:   medicationRepo,
		DoseRepo:         doseRepo,
		CaregiverRepo:    caregiverRepo,
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Sender:           sender,
		Publisher:        mockSvc.NopEventPublisher{},
		Push:             push,
		Config: &config.Config{
			Cron: &config.CronConfig{
				MissedDoseGrace: 30 * time.Minute,
				ReminderLead:    time.Hour,
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return scheduleFixtures{
		service:          service,
		medicationRepo:   medicationRepo,
		doseRepo:         doseRepo,
		caregiverRepo:    caregiverRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sender:           sender,
		push:             push,
	}
}

func scheduledMedication(userID uuid.UUID, schedules ...string) *entity.Medication {
	return &entity.Medication{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Metformin",
		Status:    entity.MedicationStatusActive,
		Schedules: schedules,
	}
}

func TestRunMissedDoseCheck_AlertsAfterGrace(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "08:00")

	// 09:00: the 08:00 intake is 30 minutes past its grace window.
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	date := "2026-08-29"

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, date).
		Return(nil, nil)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationMissedDose, mock.AnythingOfType("string")).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == userID &&
			n.Type == entity.NotificationMissedDose &&
			n.Priority == entity.PriorityHigh
	})).Return(nil)
	// No registered device, so the push service stays untouched.
	f.userRepo.On("FindUserByID", ctx, userID).Return(&entity.User{ID: userID}, nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Alerted)
	assert.Empty(t, result.Errors)
}

func TestRunMissedDoseCheck_InsideGraceStaysQuiet(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	med := scheduledMedication(uuid.New(), "08:00")

	// 08:10 is still within the 30-minute grace window.
	now := time.Date(2026, 8, 29, 8, 10, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Checked)
	assert.Equal(t, 0, result.Alerted)
}

func TestRunMissedDoseCheck_TakenDoseNotAlerted(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	med := scheduledMedication(uuid.New(), "08:00")
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	takenAt := time.Date(2026, 8, 29, 8, 5, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, "2026-08-29").
		Return([]*entity.DoseRecord{{
			MedicationID:  med.ID,
			Status:        entity.DoseStatusTaken,
			TakenAt:       &takenAt,
			Date:          "2026-08-29",
			ScheduledTime: "08:00",
		}}, nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 0, result.Alerted)
}

func TestRunMissedDoseCheck_SingleDayQueryPerMedication(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "07:00", "08:00")
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	// Both lapsed intakes are checked against one day-level lookup.
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, "2026-08-29").
		Return([]*entity.DoseRecord{{
			MedicationID:  med.ID,
			Status:        entity.DoseStatusTaken,
			Date:          "2026-08-29",
			ScheduledTime: "07:00",
		}}, nil).Once()
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationMissedDose, mock.AnythingOfType("string")).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.Payload["scheduled_time"] == "08:00"
	})).Return(nil)
	f.userRepo.On("FindUserByID", ctx, userID).Return(&entity.User{ID: userID}, nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Alerted)
}

func TestRunMissedDoseCheck_CriticalMedicationTextsCaregivers(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "08:00")
	med.IsCritical = true
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	optedIn := &entity.Caregiver{
		ID:               uuid.New(),
		PatientID:        userID,
		Name:             "Alice",
		Phone:            "+886912345678",
		IsActive:         true,
		NotifyMissedDose: true,
	}
	noPhone := &entity.Caregiver{
		ID:               uuid.New(),
		PatientID:        userID,
		Name:             "Carol",
		IsActive:         true,
		NotifyMissedDose: true,
	}

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, "2026-08-29").
		Return(nil, nil)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationMissedDose, mock.AnythingOfType("string")).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.Priority == entity.PriorityCritical
	})).Return(nil)
	f.userRepo.On("FindUserByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	f.caregiverRepo.On("FindCaregiversByPatient", ctx, userID).
		Return([]*entity.Caregiver{optedIn, noPhone}, nil)
	// Only the caregiver with a phone number gets the text.
	f.sender.On("Send", ctx, "+886912345678", mock.AnythingOfType("string"), mock.Anything).
		Return("msg-1", nil).Once()

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Alerted)
}

func TestRunMissedDoseCheck_ExistingUnreadAlertNotRepeated(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "08:00")
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, "2026-08-29").
		Return(nil, nil)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationMissedDose, mock.AnythingOfType("string")).
		Return(true, nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Alerted)
	f.notificationRepo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestRunMissedDoseCheck_PushesToRegisteredDevice(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "08:00")
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecordsByMedicationAndDate", ctx, med.ID, "2026-08-29").
		Return(nil, nil)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationMissedDose, mock.AnythingOfType("string")).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.Anything).Return(nil)
	f.userRepo.On("FindUserByID", ctx, userID).
		Return(&entity.User{ID: userID, DeviceToken: "device-1"}, nil)
	f.push.On("SendPush", ctx, "device-1", "Missed dose", mock.AnythingOfType("string"), mock.Anything).
		Return(nil)

	_, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
}

func TestRunMissedDoseCheck_LowStockRaisesNotification(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	stock := 2
	threshold := 3
	med := scheduledMedication(userID, "08:00")
	med.Stock = &stock
	med.StockUnit = "pills"
	med.LowStockThreshold = &threshold
	// No schedule has lapsed yet, only the stock check fires.
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationLowStock, med.ID.String()).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.Type == entity.NotificationLowStock
	})).Return(nil)

	result, err := f.service.RunMissedDoseCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Alerted)
}

func TestRunReminderCheck_NotifiesUpcomingIntake(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := scheduledMedication(userID, "08:00", "20:00")

	// 07:30: only the 08:00 intake is within the one-hour lead.
	now := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecord", ctx, med.ID, "2026-08-29", "08:00").
		Return(nil, repository.ErrDoseRecordNotFound)
	f.notificationRepo.On("HasUnreadOfType", ctx, userID, entity.NotificationReminder, mock.AnythingOfType("string")).
		Return(false, nil)
	f.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.Type == entity.NotificationReminder && n.UserID == userID
	})).Return(nil)
	f.userRepo.On("FindUserByID", ctx, userID).Return(&entity.User{ID: userID}, nil)

	result, err := f.service.RunReminderCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Alerted)
}

func TestRunReminderCheck_LoggedIntakeNeedsNoReminder(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	med := scheduledMedication(uuid.New(), "08:00")
	now := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)
	f.doseRepo.On("FindDoseRecord", ctx, med.ID, "2026-08-29", "08:00").
		Return(&entity.DoseRecord{MedicationID: med.ID, Status: entity.DoseStatusPending}, nil)

	result, err := f.service.RunReminderCheck(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 0, result.Alerted)
}

func TestRunReminderCheck_BadScheduleCollected(t *testing.T) {
	f := createTestScheduleService(t)
	ctx := context.Background()
	med := scheduledMedication(uuid.New(), "25:99")
	now := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)

	f.medicationRepo.On("FindActiveMedications", ctx).
		Return([]*entity.Medication{med}, nil)

	result, err := f.service.RunReminderCheck(ctx, now)
	require.NoError(t, err)
	assert.Len(t, result.Errors, 1)
}
