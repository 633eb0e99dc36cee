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

func createTestVoiceNoteService(t *testing.T) (usecase.VoiceNoteUsecase, *mockRepo.MockVoiceNoteRepository) {
	t.Helper()

	voiceNoteRepo := mockRepo.NewMockVoiceNoteRepository(t)
	service := NewVoiceNoteService(VoiceNoteServiceParams{
		VoiceNoteRepo: voiceNoteRepo,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return service, voiceNoteRepo
}

func TestCreateVoiceNote_PersistsOwnedNote(t *testing.T) {
	service, voiceNoteRepo := createTestVoiceNoteService(t)
	ctx := context.Background()
	userID := uuid.New()
	medicationID := uuid.New()

	voiceNoteRepo.On("CreateVoiceNote", ctx, mock.MatchedBy(func(n *entity.VoiceNote) bool {
		return n.UserID == userID && n.MedicationID != nil && *n.MedicationID == medicationID
	})).Return(nil)

	note, err := service.CreateVoiceNote(ctx, userID, &usecase.CreateVoiceNoteInput{
		MedicationID:    &medicationID,
		Date:            "2026-08-29",
		DurationSeconds: 12,
		Transcript:      "felt dizzy after the morning dose",
		AudioURL:        "https://storage.example.com/notes/abc.m4a",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, note.UserID)
}

func TestCreateVoiceNote_MissingAudioRejected(t *testing.T) {
	service, _ := createTestVoiceNoteService(t)

	_, err := service.CreateVoiceNote(context.Background(), uuid.New(), &usecase.CreateVoiceNoteInput{
		Date: "2026-08-29",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCreateVoiceNote_BadDateRejected(t *testing.T) {
	service, _ := createTestVoiceNoteService(t)

	_, err := service.CreateVoiceNote(context.Background(), uuid.New(), &usecase.CreateVoiceNoteInput{
		Date:     "29/08/2026",
		AudioURL: "https://storage.example.com/notes/abc.m4a",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeleteVoiceNote_UnknownNoteMapped(t *testing.T) {
	service, voiceNoteRepo := createTestVoiceNoteService(t)
	ctx := context.Background()
	userID := uuid.New()
	noteID := uuid.New()

	voiceNoteRepo.On("DeleteVoiceNote", ctx, userID, noteID).
		Return(repository.ErrVoiceNoteNotFound)

	err := service.DeleteVoiceNote(ctx, userID, noteID)
	assert.ErrorIs(t, err, domainerrors.ErrVoiceNoteNotFound)
}

func TestListVoiceNotes_PassesFilter(t *testing.T) {
	service, voiceNoteRepo := createTestVoiceNoteService(t)
	ctx := context.Background()
	userID := uuid.New()
	medicationID := uuid.New()

	stored := []*entity.VoiceNote{{ID: uuid.New(), UserID: userID}}
	voiceNoteRepo.On("FindVoiceNotesByUser", ctx, userID, repository.VoiceNoteFilter{
		FromDate:     "2026-08-01",
		ToDate:       "2026-08-29",
		MedicationID: &medicationID,
	}).Return(stored, nil)

	notes, err := service.ListVoiceNotes(ctx, userID, &usecase.ListVoiceNotesInput{
		FromDate:     "2026-08-01",
		ToDate:       "2026-08-29",
		MedicationID: &medicationID,
	})
	require.NoError(t, err)
	assert.Equal(t, stored, notes)
}
