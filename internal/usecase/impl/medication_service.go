package impl

import (
	"context"
	"log/slog"

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

// medicationService implements the MedicationUsecase interface.
type medicationService struct {
	txManager      repository.TransactionManager
	medicationRepo repository.MedicationRepository
	scanner        service.LabelScanner
	logger         *slog.Logger
}

// MedicationServiceParams holds dependencies for MedicationService, injected by Fx.
type MedicationServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	MedicationRepo repository.MedicationRepository
	Scanner        service.LabelScanner
	Logger         *slog.Logger
}

// NewMedicationService is the constructor for medicationService.
func NewMedicationService(params MedicationServiceParams) usecase.MedicationUsecase {
	return &medicationService{
		txManager:      params.TxManager,
		medicationRepo: params.MedicationRepo,
		scanner:        params.Scanner,
		logger:         params.Logger,
	}
}

func (srv *medicationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateMedication validates and persists a new medication for the user.
func (srv *medicationService) CreateMedication(ctx context.Context, userID uuid.UUID, input *usecase.MedicationInput) (*entity.Medication, error) {
	med := buildMedicationEntity(userID, input)
	if med.Status == "" {
		med.Status = entity.MedicationStatusActive
	}

	if err := med.Validate(); err != nil {
		return nil, domainerrors.ErrValidation.WrapMessage(err.Error())
	}

	if err := srv.medicationRepo.CreateMedication(ctx, med); err != nil {
		srv.log(ctx).Error("Failed to create medication", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create medication")
	}

	srv.log(ctx).Info("Medication created", slog.Any("userID", userID), slog.Any("medicationID", med.ID))

	return med, nil
}

// UpdateMedication overwrites a medication the user owns.
func (srv *medicationService) UpdateMedication(ctx context.Context, userID, medicationID uuid.UUID, input *usecase.MedicationInput) (*entity.Medication, error) {
	existing, err := srv.loadOwnedMedication(ctx, userID, medicationID)
	if err != nil {
		return nil, err
	}

	med := buildMedicationEntity(userID, input)
	med.ID = medicationID
	med.CreatedAt = existing.CreatedAt
	if med.Status == "" {
		med.Status = existing.Status
	}

	if err := med.Validate(); err != nil {
		return nil, domainerrors.ErrValidation.WrapMessage(err.Error())
	}

	if err := srv.medicationRepo.UpdateMedication(ctx, med); err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			return nil, domainerrors.ErrMedicationNotFound
		}

		return nil, errors.Wrap(err, "failed to update medication")
	}

	return med, nil
}

// DeleteMedication removes the medication and its dose records in one
// transaction. Dose rows go first because the backend does not cascade.
func (srv *medicationService) DeleteMedication(ctx context.Context, userID, medicationID uuid.UUID) error {
	if _, err := srv.loadOwnedMedication(ctx, userID, medicationID); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		doseRepo := repoFactory.NewDoseRepository()
		medicationRepo := repoFactory.NewMedicationRepository()

		if err := doseRepo.DeleteDoseRecordsByMedication(ctx, medicationID); err != nil {
			return errors.Wrap(err, "failed to delete dependent dose records")
		}

		if err := medicationRepo.DeleteMedication(ctx, medicationID); err != nil {
			return errors.Wrap(err, "failed to delete medication")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute medication delete transaction",
			slog.Any("medicationID", medicationID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute medication delete transaction")
	}

	srv.log(ctx).Info("Medication deleted", slog.Any("userID", userID), slog.Any("medicationID", medicationID))

	return nil
}

// GetMedication retrieves one medication the user owns.
func (srv *medicationService) GetMedication(ctx context.Context, userID, medicationID uuid.UUID) (*entity.Medication, error) {
	return srv.loadOwnedMedication(ctx, userID, medicationID)
}

// ListMedications retrieves the user's medications, newest first.
func (srv *medicationService) ListMedications(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error) {
	meds, err := srv.medicationRepo.FindMedicationsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list medications")
	}

	return meds, nil
}

// ScanLabel forwards the label photo to the vision scanner.
func (srv *medicationService) ScanLabel(ctx context.Context, userID uuid.UUID, imageJPEG []byte) (*service.MedicationDraft, error) {
	draft, err := srv.scanner.ScanLabel(ctx, imageJPEG)
	if err != nil {
		srv.log(ctx).Warn("Label scan failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Label scanned", slog.Any("userID", userID), slog.String("name", draft.Name))

	return draft, nil
}

func (srv *medicationService) loadOwnedMedication(ctx context.Context, userID, medicationID uuid.UUID) (*entity.Medication, error) {
	med, err := srv.medicationRepo.FindMedicationByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			return nil, domainerrors.ErrMedicationNotFound
		}

		return nil, errors.Wrap(err, "failed to find medication")
	}

	// Ownership check doubles as a not-found so callers cannot probe for
	// other users' record ids.
	if med.UserID != userID {
		return nil, domainerrors.ErrMedicationNotFound
	}

	return med, nil
}

func buildMedicationEntity(userID uuid.UUID, input *usecase.MedicationInput) *entity.Medication {
	return &entity.Medication{
		UserID:      userID,
		Name:        input.Name,
		GenericName: input.GenericName,
		DoseAmount:  input.DoseAmount,
		DoseUnit:    entity.DoseUnit(input.DoseUnit),
		Frequency: entity.Frequency{
			Type:  input.FrequencyType,
			Value: input.FrequencyValue,
		},
		Schedules:         input.Schedules,
		Instructions:      input.Instructions,
		Status:            entity.MedicationStatus(input.Status),
		Stock:             input.Stock,
		StockUnit:         input.StockUnit,
		LowStockThreshold: input.LowStockThreshold,
		IsCritical:        input.IsCritical,
		AlertDelayMinutes: input.AlertDelayMinutes,
	}
}
