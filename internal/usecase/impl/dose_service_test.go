package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	mockRepo "medtrack/internal/mocks/repository"
	mockSvc "medtrack/internal/mocks/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// doseFixtures holds the test dependencies for dose service tests.
type doseFixtures struct {
	service        usecase.DoseUsecase
	txManager      *mockRepo.MockTransactionManager
	medicationRepo *mockRepo.MockMedicationRepository
	doseRepo       *mockRepo.MockDoseRepository
}

func createTestDoseService(t *testing.T) doseFixtures {
	t.Helper()

	txManager := mockRepo.NewMockTransactionManager(t)
	medicationRepo := mockRepo.NewMockMedicationRepository(t)
	doseRepo := mockRepo.NewMockDoseRepository(t)
	txManager.Factory = &mockRepo.StubRepositoryFactory{
		MedicationRepo: medicationRepo,
		DoseRepo:       doseRepo,
	}

	service := NewDoseService(DoseServiceParams{
		TxManager:      txManager,
		MedicationRepo: medicationRepo,
		DoseRepo:       doseRepo,
		Publisher:      mockSvc.NopEventPublisher{},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return doseFixtures{
		service:        service,
		txManager:      txManager,
		medicationRepo: medicationRepo,
		doseRepo:       doseRepo,
	}
}

func TestLogDose_TakenDecrementsStock(t *testing.T) {
	f := createTestDoseService(t)
	ctx := context.Background()
	userID := uuid.New()
	stock := 5
	med := &entity.Medication{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Metformin",
		Stock:  &stock,
	}

	f.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).Return(med, nil)
	f.doseRepo.On("FindDoseRecord", ctx, med.ID, "2026-08-29", "08:00").
		Return(nil, repository.ErrDoseRecordNotFound)
	f.doseRepo.On("UpsertDoseRecord", ctx, mock.MatchedBy(func(d *entity.DoseRecord) bool {
		return d.Status == entity.DoseStatusTaken && d.TakenAt != nil
	})).Return(nil)
	f.medicationRepo.On("UpdateMedication", ctx, mock.MatchedBy(func(m *entity.Medication) bool {
		return m.Stock != nil && *m.Stock == 4
	})).Return(nil)

	record, err := f.service.LogDose(ctx, userID, &usecase.LogDoseInput{
		MedicationID:  med.ID,
		Date:          "2026-08-29",
		ScheduledTime: "08:00",
		Status:        "taken",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DoseStatusTaken, record.Status)
	require.NotNil(t, record.TakenAt)
}

func TestLogDose_RelogTakenDoseKeepsStock(t *testing.T) {
	f := createTestDoseService(t)
	ctx := context.Background()
	userID := uuid.New()
	stock := 5
	med := &entity.Medication{ID: uuid.New(), UserID: userID, Stock: &stock}
	takenAt := time.Now()

	f.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).Return(med, nil)
	f.doseRepo.On("FindDoseRecord", ctx, med.ID, "2026-08-29", "08:00").
		Return(&entity.DoseRecord{
			MedicationID: med.ID,
			Status:       entity.DoseStatusTaken,
			TakenAt:      &takenAt,
		}, nil)
	f.doseRepo.On("UpsertDoseRecord", ctx, mock.Anything).Return(nil)

	_, err := f.service.LogDose(ctx, userID, &usecase.LogDoseInput{
		MedicationID:  med.ID,
		Date:          "2026-08-29",
		ScheduledTime: "08:00",
		Status:        "taken",
		TakenAt:       &takenAt,
	})
	require.NoError(t, err)
	f.medicationRepo.AssertNotCalled(t, "UpdateMedication", mock.Anything, mock.Anything)
}

func TestLogDose_SkippedDoesNotTouchStock(t *testing.T) {
	f := createTestDoseService(t)
	ctx := context.Background()
	userID := uuid.New()
	stock := 5
	med := &entity.Medication{ID: uuid.New(), UserID: userID, Stock: &stock}

	f.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).Return(med, nil)
	f.doseRepo.On("FindDoseRecord", ctx, med.ID, "2026-08-29", "08:00").
		Return(nil, repository.ErrDoseRecordNotFound)
	f.doseRepo.On("UpsertDoseRecord", ctx, mock.MatchedBy(func(d *entity.DoseRecord) bool {
		return d.Status == entity.DoseStatusSkipped && d.TakenAt == nil
	})).Return(nil)

	_, err := f.service.LogDose(ctx, userID, &usecase.LogDoseInput{
		MedicationID:  med.ID,
		Date:          "2026-08-29",
		ScheduledTime: "08:00",
		Status:        "skipped",
	})
	require.NoError(t, err)
	f.medicationRepo.AssertNotCalled(t, "UpdateMedication", mock.Anything, mock.Anything)
}

func TestLogDose_ForeignMedicationRejected(t *testing.T) {
	f := createTestDoseService(t)
	ctx := context.Background()
	med := &entity.Medication{ID: uuid.New(), UserID: uuid.New()}

	f.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).Return(med, nil)

	_, err := f.service.LogDose(ctx, uuid.New(), &usecase.LogDoseInput{
		MedicationID:  med.ID,
		Date:          "2026-08-29",
		ScheduledTime: "08:00",
		Status:        "taken",
	})
	assert.ErrorIs(t, err, domainerrors.ErrMedicationNotFound)
}

func TestLogDose_InvalidStatusRejected(t *testing.T) {
	f := createTestDoseService(t)

	_, err := f.service.LogDose(context.Background(), uuid.New(), &usecase.LogDoseInput{
		MedicationID:  uuid.New(),
		Date:          "2026-08-29",
		ScheduledTime: "08:00",
		Status:        "swallowed",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLogDose_BadDateRejected(t *testing.T) {
	f := createTestDoseService(t)

	_, err := f.service.LogDose(context.Background(), uuid.New(), &usecase.LogDoseInput{
		MedicationID:  uuid.New(),
		Date:          "29/08/2026",
		ScheduledTime: "08:00",
		Status:        "taken",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
