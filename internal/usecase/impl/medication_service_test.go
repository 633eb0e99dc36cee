package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/domain/service"
	mockRepo "medtrack/internal/mocks/repository"
	mockSvc "medtrack/internal/mocks/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// medicationFixtures holds the test dependencies for medication service tests.
type medicationFixtures struct {
	service        usecase.MedicationUsecase
	txManager      *mockRepo.MockTransactionManager
	medicationRepo *mockRepo.MockMedicationRepository
	doseRepo       *mockRepo.MockDoseRepository
	scanner        *mockSvc.MockLabelScanner
}

func createTestMedicationService(t *testing.T) medicationFixtures {
	t.Helper()

	txManager := mockRepo.NewMockTransactionManager(t)
	medicationRepo := mockRepo.NewMockMedicationRepository(t)
	doseRepo := mockRepo.NewMockDoseRepository(t)
	scanner := mockSvc.NewMockLabelScanner(t)
	txManager.Factory = &mockRepo.StubRepositoryFactory{
		MedicationRepo: medicationRepo,
		DoseRepo:       doseRepo,
	}

	service := NewMedicationService(MedicationServiceParams{
		TxManager:      txManager,
		MedicationRepo: medicationRepo,
		Scanner:        scanner,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return medicationFixtures{
		service:        service,
		txManager:      txManager,
		medicationRepo: medicationRepo,
		doseRepo:       doseRepo,
		scanner:        scanner,
	}
}

func validMedicationInput() *usecase.MedicationInput {
	return &usecase.MedicationInput{
		Name:          "Metformin",
		DoseAmount:    500,
		DoseUnit:      "mg",
		FrequencyType: "daily",
		Schedules:     []string{"08:00", "20:00"},
	}
}

func TestCreateMedication_DefaultsToActive(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()
	userID := uuid.New()

	f.medicationRepo.On("CreateMedication", ctx, mock.MatchedBy(func(m *entity.Medication) bool {
		return m.UserID == userID && m.Status == entity.MedicationStatusActive
	})).Return(nil)

	med, err := f.service.CreateMedication(ctx, userID, validMedicationInput())
	require.NoError(t, err)
	assert.Equal(t, entity.MedicationStatusActive, med.Status)
}

func TestCreateMedication_EmptyScheduleRejected(t *testing.T) {
	f := createTestMedicationService(t)

	input := validMedicationInput()
	input.Schedules = nil

	_, err := f.service.CreateMedication(context.Background(), uuid.New(), input)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateMedication_ForeignMedicationRejected(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()
	medicationID := uuid.New()

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(&entity.Medication{ID: medicationID, UserID: uuid.New()}, nil)

	_, err := f.service.UpdateMedication(ctx, uuid.New(), medicationID, validMedicationInput())
	assert.ErrorIs(t, err, domainerrors.ErrMedicationNotFound)
}

func TestDeleteMedication_RemovesDosesFirst(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()
	userID := uuid.New()
	medicationID := uuid.New()

	var order []string

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(&entity.Medication{ID: medicationID, UserID: userID}, nil)
	f.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	f.doseRepo.On("DeleteDoseRecordsByMedication", ctx, medicationID).
		Run(func(mock.Arguments) { order = append(order, "doses") }).
		Return(nil)
	f.medicationRepo.On("DeleteMedication", ctx, medicationID).
		Run(func(mock.Arguments) { order = append(order, "medication") }).
		Return(nil)

	require.NoError(t, f.service.DeleteMedication(ctx, userID, medicationID))
	assert.Equal(t, []string{"doses", "medication"}, order)
}

func TestScanLabel_PassesDraftThrough(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()
	image := []byte{0xFF, 0xD8, 0xFF}
	draft := &service.MedicationDraft{Name: "Metformin"}

	f.scanner.On("ScanLabel", ctx, image).Return(draft, nil)

	got, err := f.service.ScanLabel(ctx, uuid.New(), image)
	require.NoError(t, err)
	assert.Equal(t, draft, got)
}

func TestScanLabel_UnavailableScannerSurfaces(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()

	f.scanner.On("ScanLabel", ctx, mock.Anything).
		Return(nil, domainerrors.ErrScannerUnavailable)

	_, err := f.service.ScanLabel(ctx, uuid.New(), []byte{0x00})
	assert.ErrorIs(t, err, domainerrors.ErrScannerUnavailable)
}

func TestGetMedication_UnknownMedication(t *testing.T) {
	f := createTestMedicationService(t)
	ctx := context.Background()
	medicationID := uuid.New()

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(nil, repository.ErrMedicationNotFound)

	_, err := f.service.GetMedication(ctx, uuid.New(), medicationID)
	assert.ErrorIs(t, err, domainerrors.ErrMedicationNotFound)
}
