package impl

import (
	"context"
	"log/slog"

	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// syncService implements the SyncUsecase interface. Every operation is
// scoped to the authenticated user; a record owned by someone else is
// reported as not found rather than forbidden.
type syncService struct {
	medicationRepo repository.MedicationRepository
	doseRepo       repository.DoseRepository
	voiceNoteRepo  repository.VoiceNoteRepository
	notifRepo      repository.NotificationRepository
	logger         *slog.Logger
}

// SyncServiceParams holds dependencies for SyncService, injected by Fx.
type SyncServiceParams struct {
	fx.In

	MedicationRepo repository.MedicationRepository
	DoseRepo       repository.DoseRepository
	VoiceNoteRepo  repository.VoiceNoteRepository
	NotifRepo      repository.NotificationRepository
	Logger         *slog.Logger
}

// NewSyncService is the constructor for syncService.
func NewSyncService(params SyncServiceParams) usecase.SyncUsecase {
	return &syncService{
		medicationRepo: params.MedicationRepo,
		doseRepo:       params.DoseRepo,
		voiceNoteRepo:  params.VoiceNoteRepo,
		notifRepo:      params.NotifRepo,
		logger:         params.Logger,
	}
}

func (srv *syncService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PullMedications returns the user's medications, newest first.
func (srv *syncService) PullMedications(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error) {
	meds, err := srv.medicationRepo.FindMedicationsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pull medications")
	}

	return meds, nil
}

// UpsertMedication creates or replaces a device-authored medication. The
// device supplies the id; ownership of an existing row is enforced before
// the replace.
func (srv *syncService) UpsertMedication(ctx context.Context, userID uuid.UUID, med *entity.Medication) error {
	med.UserID = userID
	if err := med.Validate(); err != nil {
		return domainerrors.ErrValidation.WrapMessage(err.Error())
	}

	existing, err := srv.medicationRepo.FindMedicationByID(ctx, med.ID)
	if err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			return errors.Wrap(srv.medicationRepo.CreateMedication(ctx, med), "failed to create pushed medication")
		}

		return errors.Wrap(err, "failed to look up pushed medication")
	}
	if existing.UserID != userID {
		return domainerrors.ErrMedicationNotFound
	}

	return errors.Wrap(srv.medicationRepo.UpdateMedication(ctx, med), "failed to update pushed medication")
}

// DeleteMedication removes the parent medication row.
func (srv *syncService) DeleteMedication(ctx context.Context, userID, medicationID uuid.UUID) error {
	if err := srv.assertOwnedMedication(ctx, userID, medicationID); err != nil {
		return err
	}

	if err := srv.medicationRepo.DeleteMedication(ctx, medicationID); err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			return domainerrors.ErrMedicationNotFound
		}

		return errors.Wrap(err, "failed to delete pushed medication")
	}

	srv.log(ctx).Info("Medication deleted via sync",
		slog.Any("userID", userID), slog.Any("medicationID", medicationID))

	return nil
}

// DeleteDosesByMedication removes a medication's dose rows ahead of the
// parent delete.
func (srv *syncService) DeleteDosesByMedication(ctx context.Context, userID, medicationID uuid.UUID) error {
	if err := srv.assertOwnedMedication(ctx, userID, medicationID); err != nil {
		return err
	}

	return errors.Wrap(srv.doseRepo.DeleteDoseRecordsByMedication(ctx, medicationID),
		"failed to delete dose records via sync")
}

// PullDoses returns all of the user's dose records, newest first.
func (srv *syncService) PullDoses(ctx context.Context, userID uuid.UUID) ([]*entity.DoseRecord, error) {
	doses, err := srv.doseRepo.FindDoseRecordsByUser(ctx, userID, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to pull dose records")
	}

	return doses, nil
}

// UpsertDose replaces the record keyed on (medication, date, scheduled time).
func (srv *syncService) UpsertDose(ctx context.Context, userID uuid.UUID, record *entity.DoseRecord) error {
	if err := srv.assertOwnedMedication(ctx, userID, record.MedicationID); err != nil {
		return err
	}

	record.UserID = userID

	return errors.Wrap(srv.doseRepo.UpsertDoseRecord(ctx, record), "failed to upsert pushed dose record")
}

// DeleteDose removes one dose record the user owns.
func (srv *syncService) DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error {
	if err := srv.doseRepo.DeleteDoseRecord(ctx, userID, doseID); err != nil {
		if errors.Is(err, repository.ErrDoseRecordNotFound) {
			return domainerrors.ErrDoseRecordNotFound
		}

		return errors.Wrap(err, "failed to delete pushed dose record")
	}

	return nil
}

// PullVoiceNotes returns the user's voice notes, newest first.
func (srv *syncService) PullVoiceNotes(ctx context.Context, userID uuid.UUID) ([]*entity.VoiceNote, error) {
	notes, err := srv.voiceNoteRepo.FindVoiceNotesByUser(ctx, userID, repository.VoiceNoteFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to pull voice notes")
	}

	return notes, nil
}

// UpsertVoiceNote creates or replaces a device-authored voice note.
func (srv *syncService) UpsertVoiceNote(ctx context.Context, userID uuid.UUID, note *entity.VoiceNote) error {
	if note.AudioURL == "" {
		return domainerrors.ErrValidation.WrapMessage("audio url is required")
	}

	note.UserID = userID

	return errors.Wrap(srv.voiceNoteRepo.UpsertVoiceNote(ctx, note), "failed to upsert pushed voice note")
}

// DeleteVoiceNote removes one voice note the user owns.
func (srv *syncService) DeleteVoiceNote(ctx context.Context, userID, noteID uuid.UUID) error {
	if err := srv.voiceNoteRepo.DeleteVoiceNote(ctx, userID, noteID); err != nil {
		if errors.Is(err, repository.ErrVoiceNoteNotFound) {
			return domainerrors.ErrVoiceNoteNotFound
		}

		return errors.Wrap(err, "failed to delete pushed voice note")
	}

	return nil
}

// PullNotifications returns the user's notifications for the device cache.
func (srv *syncService) PullNotifications(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error) {
	notifications, err := srv.notifRepo.FindNotificationsByUser(ctx, userID, 0, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pull notifications")
	}

	return notifications, nil
}

// assertOwnedMedication reports not-found for missing and foreign rows alike.
func (srv *syncService) assertOwnedMedication(ctx context.Context, userID, medicationID uuid.UUID) error {
	med, err := srv.medicationRepo.FindMedicationByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			return domainerrors.ErrMedicationNotFound
		}

		return errors.Wrap(err, "failed to look up medication")
	}
	if med.UserID != userID {
		return domainerrors.ErrMedicationNotFound
	}

	return nil
}
