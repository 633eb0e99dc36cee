package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// voiceNoteService implements the VoiceNoteUsecase interface.
type voiceNoteService struct {
	voiceNoteRepo repository.VoiceNoteRepository
	logger        *slog.Logger
}

// VoiceNoteServiceParams holds dependencies for VoiceNoteService, injected by Fx.
type VoiceNoteServiceParams struct {
	fx.In

	VoiceNoteRepo repository.VoiceNoteRepository
	Logger        *slog.Logger
}

// NewVoiceNoteService is the constructor for voiceNoteService.
func NewVoiceNoteService(params VoiceNoteServiceParams) usecase.VoiceNoteUsecase {
	return &voiceNoteService{
		voiceNoteRepo: params.VoiceNoteRepo,
		logger:        params.Logger,
	}
}

func (srv *voiceNoteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateVoiceNote attaches a voice note to the user's day or medication.
func (srv *voiceNoteService) CreateVoiceNote(ctx context.Context, userID uuid.UUID, input *usecase.CreateVoiceNoteInput) (*entity.VoiceNote, error) {
	if input.AudioURL == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("audio url is required")
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, domainerrors.ErrValidation.WrapMessage("date must be in YYYY-MM-DD form")
	}

	note := &entity.VoiceNote{
		UserID:          userID,
		MedicationID:    input.MedicationID,
		Date:            input.Date,
		DurationSeconds: input.DurationSeconds,
		Transcript:      input.Transcript,
		AudioURL:        input.AudioURL,
	}

	if err := srv.voiceNoteRepo.CreateVoiceNote(ctx, note); err != nil {
		return nil, errors.Wrap(err, "failed to create voice note")
	}

	srv.log(ctx).Info("Voice note created", slog.Any("userID", userID), slog.Any("noteID", note.ID))

	return note, nil
}

// DeleteVoiceNote removes a voice note the user owns.
func (srv *voiceNoteService) DeleteVoiceNote(ctx context.Context, userID, noteID uuid.UUID) error {
	if err := srv.voiceNoteRepo.DeleteVoiceNote(ctx, userID, noteID); err != nil {
		if errors.Is(err, repository.ErrVoiceNoteNotFound) {
			return domainerrors.ErrVoiceNoteNotFound
		}

		return errors.Wrap(err, "failed to delete voice note")
	}

	return nil
}

// ListVoiceNotes retrieves the user's voice notes matching the filter.
func (srv *voiceNoteService) ListVoiceNotes(ctx context.Context, userID uuid.UUID, input *usecase.ListVoiceNotesInput) ([]*entity.VoiceNote, error) {
	notes, err := srv.voiceNoteRepo.FindVoiceNotesByUser(ctx, userID, repository.VoiceNoteFilter{
		FromDate:     input.FromDate,
		ToDate:       input.ToDate,
		MedicationID: input.MedicationID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list voice notes")
	}

	return notes, nil
}
