package postgres

import (
	"context"
	"encoding/json"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// medicationRepository implements the repository.MedicationRepository interface.
type medicationRepository struct {
	db *gorm.DB
}

// NewMedicationRepository is the constructor for medicationRepository.
func NewMedicationRepository(db *gorm.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

// CreateMedication persists a new medication.
func (repo *medicationRepository) CreateMedication(ctx context.Context, med *entity.Medication) error {
	medM := fromMedicationDomain(med)

	if err := repo.db.WithContext(ctx).Create(medM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("missing required medication information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create medication")
	}

	med.ID = medM.ID
	med.CreatedAt = medM.CreatedAt
	med.UpdatedAt = medM.UpdatedAt

	return nil
}

// UpdateMedication overwrites an existing medication.
func (repo *medicationRepository) UpdateMedication(ctx context.Context, med *entity.Medication) error {
	medM := fromMedicationDomain(med)

	result := repo.db.WithContext(ctx).
		Model(&model.MedicationModel{}).
		Where("id = ? AND user_id = ?", med.ID, med.UserID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(medM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update medication")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMedicationNotFound
	}

	return nil
}

// DeleteMedication removes a medication row.
func (repo *medicationRepository) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MedicationModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete medication")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMedicationNotFound
	}

	return nil
}

// FindMedicationByID retrieves a medication by its unique ID.
func (repo *medicationRepository) FindMedicationByID(ctx context.Context, id uuid.UUID) (*entity.Medication, error) {
	var medM model.MedicationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&medM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMedicationNotFound
		}

		return nil, errors.Wrap(err, "failed to find medication by ID")
	}

	return toMedicationDomain(&medM), nil
}

// FindMedicationsByUser retrieves all medications for a user, newest first.
func (repo *medicationRepository) FindMedicationsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error) {
	var medModels []*model.MedicationModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&medModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find medications by user")
	}

	meds := make([]*entity.Medication, 0, len(medModels))
	for _, medM := range medModels {
		meds = append(meds, toMedicationDomain(medM))
	}

	return meds, nil
}

// FindActiveMedications retrieves every active medication across all users.
func (repo *medicationRepository) FindActiveMedications(ctx context.Context) ([]*entity.Medication, error) {
	var medModels []*model.MedicationModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.MedicationStatusActive)).
		Order("created_at DESC").
		Find(&medModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active medications")
	}

	meds := make([]*entity.Medication, 0, len(medModels))
	for _, medM := range medModels {
		meds = append(meds, toMedicationDomain(medM))
	}

	return meds, nil
}

// --- Mapper Functions ---

func toMedicationDomain(data *model.MedicationModel) *entity.Medication {
	if data == nil {
		return nil
	}

	return &entity.Medication{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		GenericName: data.GenericName,
		DoseAmount:  data.DoseAmount,
		DoseUnit:    entity.DoseUnit(data.DoseUnit),
		Frequency: entity.Frequency{
			Type:  data.FrequencyType,
			Value: data.FrequencyValue,
		},
		Schedules:         stringsFromJSON(data.Schedules),
		Instructions:      stringsFromJSON(data.Instructions),
		Status:            entity.MedicationStatus(data.Status),
		Stock:             data.Stock,
		StockUnit:         data.StockUnit,
		LowStockThreshold: data.LowStockThreshold,
		IsCritical:        data.IsCritical,
		AlertDelayMinutes: data.AlertDelayMinutes,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromMedicationDomain(data *entity.Medication) *model.MedicationModel {
	if data == nil {
		return nil
	}

	return &model.MedicationModel{
		ID:                data.ID,
		UserID:            data.UserID,
		Name:              data.Name,
		GenericName:       data.GenericName,
		DoseAmount:        data.DoseAmount,
		DoseUnit:          string(data.DoseUnit),
		FrequencyType:     data.Frequency.Type,
		FrequencyValue:    data.Frequency.Value,
		Schedules:         stringsToJSON(data.Schedules),
		Instructions:      stringsToJSON(data.Instructions),
		Status:            string(data.Status),
		Stock:             data.Stock,
		StockUnit:         data.StockUnit,
		LowStockThreshold: data.LowStockThreshold,
		IsCritical:        data.IsCritical,
		AlertDelayMinutes: data.AlertDelayMinutes,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// stringsToJSON encodes a string slice as a JSON array column value.
// Marshalling a []string cannot fail.
func stringsToJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON("[]")
	}

	raw, _ := json.Marshal(values)

	return datatypes.JSON(raw)
}

func stringsFromJSON(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	return values
}
