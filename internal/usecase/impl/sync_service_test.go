package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	mockRepo "medtrack/internal/mocks/repository"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type syncFixtures struct {
	service        usecase.SyncUsecase
	medicationRepo *mockRepo.MockMedicationRepository
	doseRepo       *mockRepo.MockDoseRepository
	voiceNoteRepo  *mockRepo.MockVoiceNoteRepository
	notifRepo      *mockRepo.MockNotificationRepository
}

func createTestSyncService(t *testing.T) syncFixtures {
	t.Helper()

	medicationRepo := mockRepo.NewMockMedicationRepository(t)
	doseRepo := mockRepo.NewMockDoseRepository(t)
	voiceNoteRepo := mockRepo.NewMockVoiceNoteRepository(t)
	notifRepo := mockRepo.NewMockNotificationRepository(t)

	service := NewSyncService(SyncServiceParams{
		MedicationRepo: medicationRepo,
		DoseRepo:       doseRepo,
		VoiceNoteRepo:  voiceNoteRepo,
		NotifRepo:      notifRepo,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return syncFixtures{
		service:        service,
		medicationRepo: medicationRepo,
		doseRepo:       doseRepo,
		voiceNoteRepo:  voiceNoteRepo,
		notifRepo:      notifRepo,
	}
}

func pushedMedication(id uuid.UUID) *entity.Medication {
	return &entity.Medication{
		ID:         id,
		Name:       "Lisinopril",
		DoseAmount: 10,
		DoseUnit:   "mg",
		Status:     entity.MedicationStatusActive,
		Schedules:  []string{"08:00"},
	}
}

func TestUpsertMedication_CreatesWhenUnknown(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := pushedMedication(uuid.New())

	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).
		Return(nil, repository.ErrMedicationNotFound)
	f.medicationRepo.On("CreateMedication", ctx, mock.MatchedBy(func(m *entity.Medication) bool {
		return m.ID == med.ID && m.UserID == userID
	})).Return(nil)

	require.NoError(t, f.service.UpsertMedication(ctx, userID, med))
}

func TestUpsertMedication_ReplacesOwnedRow(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()
	med := pushedMedication(uuid.New())

	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).
		Return(&entity.Medication{ID: med.ID, UserID: userID}, nil)
	f.medicationRepo.On("UpdateMedication", ctx, med).Return(nil)

	require.NoError(t, f.service.UpsertMedication(ctx, userID, med))
}

func TestUpsertMedication_ForeignRowReportedAsNotFound(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	med := pushedMedication(uuid.New())

	f.medicationRepo.On("FindMedicationByID", ctx, med.ID).
		Return(&entity.Medication{ID: med.ID, UserID: uuid.New()}, nil)

	err := f.service.UpsertMedication(ctx, uuid.New(), med)
	assert.ErrorIs(t, err, domainerrors.ErrMedicationNotFound)
	f.medicationRepo.AssertNotCalled(t, "UpdateMedication", mock.Anything, mock.Anything)
}

func TestUpsertMedication_InvalidRowRejected(t *testing.T) {
	f := createTestSyncService(t)

	med := pushedMedication(uuid.New())
	med.Schedules = nil

	err := f.service.UpsertMedication(context.Background(), uuid.New(), med)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpsertDose_StampsOwnerBeforePersisting(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()
	medicationID := uuid.New()

	record := &entity.DoseRecord{
		ID:           uuid.New(),
		MedicationID: medicationID,
		Date:         "2026-08-29",
		Status:       entity.DoseStatusTaken,
	}

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(&entity.Medication{ID: medicationID, UserID: userID}, nil)
	f.doseRepo.On("UpsertDoseRecord", ctx, mock.MatchedBy(func(r *entity.DoseRecord) bool {
		return r.UserID == userID
	})).Return(nil)

	require.NoError(t, f.service.UpsertDose(ctx, userID, record))
}

func TestUpsertDose_ForeignMedicationRejected(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	medicationID := uuid.New()

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(&entity.Medication{ID: medicationID, UserID: uuid.New()}, nil)

	err := f.service.UpsertDose(ctx, uuid.New(), &entity.DoseRecord{MedicationID: medicationID})
	assert.ErrorIs(t, err, domainerrors.ErrMedicationNotFound)
}

func TestDeleteDosesByMedication_ScopedToOwner(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()
	medicationID := uuid.New()

	f.medicationRepo.On("FindMedicationByID", ctx, medicationID).
		Return(&entity.Medication{ID: medicationID, UserID: userID}, nil)
	f.doseRepo.On("DeleteDoseRecordsByMedication", ctx, medicationID).Return(nil)

	require.NoError(t, f.service.DeleteDosesByMedication(ctx, userID, medicationID))
}

func TestUpsertVoiceNote_MissingAudioRejected(t *testing.T) {
	f := createTestSyncService(t)

	err := f.service.UpsertVoiceNote(context.Background(), uuid.New(), &entity.VoiceNote{
		ID:   uuid.New(),
		Date: "2026-08-29",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeleteVoiceNote_UnknownNote(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()
	noteID := uuid.New()

	f.voiceNoteRepo.On("DeleteVoiceNote", ctx, userID, noteID).
		Return(repository.ErrVoiceNoteNotFound)

	err := f.service.DeleteVoiceNote(ctx, userID, noteID)
	assert.ErrorIs(t, err, domainerrors.ErrVoiceNoteNotFound)
}

func TestPullNotifications_ReturnsFullSet(t *testing.T) {
	f := createTestSyncService(t)
	ctx := context.Background()
	userID := uuid.New()

	stored := []*entity.Notification{
		{ID: uuid.New(), UserID: userID, Type: entity.NotificationReminder},
		{ID: uuid.New(), UserID: userID, Type: entity.NotificationMissedDose, Read: true},
	}
	f.notifRepo.On("FindNotificationsByUser", ctx, userID, 0, false).Return(stored, nil)

	got, err := f.service.PullNotifications(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}
