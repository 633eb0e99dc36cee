package impl

import (
	"context"
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

// doseService implements the DoseUsecase interface.
type doseService struct {
	txManager      repository.TransactionManager
	medicationRepo repository.MedicationRepository
	doseRepo       repository.DoseRepository
	publisher      service.EventPublisher
	logger         *slog.Logger
}

// DoseServiceParams holds dependencies for DoseService, injected by Fx.
type DoseServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	MedicationRepo repository.MedicationRepository
	DoseRepo       repository.DoseRepository
	Publisher      service.EventPublisher
	Logger         *slog.Logger
}

// NewDoseService is the constructor for doseService.
func NewDoseService(params DoseServiceParams) usecase.DoseUsecase {
	return &doseService{
		txManager:      params.TxManager,
		medicationRepo: params.MedicationRepo,
		doseRepo:       params.DoseRepo,
		publisher:      params.Publisher,
		logger:         params.Logger,
	}
}

func (srv *doseService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LogDose upserts the record for one scheduled intake. A dose logged as taken
// decrements the medication's stock inside the same transaction.
func (srv *doseService) LogDose(ctx context.Context, userID uuid.UUID, input *usecase.LogDoseInput) (*entity.DoseRecord, error) {
	status := entity.DoseStatus(input.Status)
	switch status {
	case entity.DoseStatusPending, entity.DoseStatusTaken, entity.DoseStatusSkipped, entity.DoseStatusPostponed:
	default:
		return nil, domainerrors.ErrValidation.WrapMessage(entity.ErrInvalidDoseStatus.Error())
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, domainerrors.ErrValidation.WrapMessage("date must be in YYYY-MM-DD form")
	}

	dose := &entity.DoseRecord{
		UserID:        userID,
		MedicationID:  input.MedicationID,
		Date:          input.Date,
		ScheduledTime: input.ScheduledTime,
		Status:        status,
		TakenAt:       input.TakenAt,
	}
	if status == entity.DoseStatusTaken && dose.TakenAt == nil {
		now := time.Now()
		dose.TakenAt = &now
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		medicationRepo := repoFactory.NewMedicationRepository()
		doseRepo := repoFactory.NewDoseRepository()

		med, err := medicationRepo.FindMedicationByID(ctx, input.MedicationID)
		if err != nil {
			if errors.Is(err, repository.ErrMedicationNotFound) {
				return domainerrors.ErrMedicationNotFound
			}

			return errors.Wrap(err, "failed to find medication for dose log")
		}
		if med.UserID != userID {
			return domainerrors.ErrMedicationNotFound
		}

		// Only decrement stock on the transition into taken, not on a re-log
		// of an already-taken dose.
		previous, err := doseRepo.FindDoseRecord(ctx, input.MedicationID, input.Date, input.ScheduledTime)
		if err != nil && !errors.Is(err, repository.ErrDoseRecordNotFound) {
			return errors.Wrap(err, "failed to find previous dose record")
		}

		if err := doseRepo.UpsertDoseRecord(ctx, dose); err != nil {
			return errors.Wrap(err, "failed to upsert dose record")
		}

		wasTaken := previous != nil && previous.Status == entity.DoseStatusTaken
		if status == entity.DoseStatusTaken && !wasTaken && med.Stock != nil && *med.Stock > 0 {
			remaining := *med.Stock - 1
			med.Stock = &remaining
			if err := medicationRepo.UpdateMedication(ctx, med); err != nil {
				return errors.Wrap(err, "failed to decrement medication stock")
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute dose log transaction",
			slog.Any("medicationID", input.MedicationID), slog.Any("error", err))

		return nil, err
	}

	// Event publishing never fails the primary operation.
	if pubErr := srv.publisher.PublishAdherenceEvent(ctx, &service.AdherenceEvent{
		Type:         "dose_logged",
		UserID:       userID.String(),
		MedicationID: input.MedicationID.String(),
		Detail:       string(status),
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
	}); pubErr != nil {
		srv.log(ctx).Warn("Failed to publish dose event", slog.Any("error", pubErr))
	}

	srv.log(ctx).Info("Dose logged",
		slog.Any("userID", userID),
		slog.Any("medicationID", input.MedicationID),
		slog.String("status", string(status)),
	)

	return dose, nil
}

// DeleteDose removes one dose record the user owns.
func (srv *doseService) DeleteDose(ctx context.Context, userID, doseID uuid.UUID) error {
	if err := srv.doseRepo.DeleteDoseRecord(ctx, userID, doseID); err != nil {
		if errors.Is(err, repository.ErrDoseRecordNotFound) {
			return domainerrors.ErrDoseRecordNotFound
		}

		return errors.Wrap(err, "failed to delete dose record")
	}

	return nil
}

// ListDoses retrieves the user's dose records within the date range.
func (srv *doseService) ListDoses(ctx context.Context, userID uuid.UUID, input *usecase.ListDosesInput) ([]*entity.DoseRecord, error) {
	records, err := srv.doseRepo.FindDoseRecordsByUser(ctx, userID, input.FromDate, input.ToDate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dose records")
	}

	return records, nil
}
