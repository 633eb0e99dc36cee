package postgres

import (
	"context"

	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/repository"
	"medtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// caregiverRepository implements the repository.CaregiverRepository interface.
type caregiverRepository struct {
	db *gorm.DB
}

// NewCaregiverRepository is the constructor for caregiverRepository.
func NewCaregiverRepository(db *gorm.DB) repository.CaregiverRepository {
	return &caregiverRepository{db: db}
}

// CreateCaregiver persists a new caregiver link owned by a patient.
func (repo *caregiverRepository) CreateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error {
	caregiverM := fromCaregiverDomain(caregiver)

	if err := repo.db.WithContext(ctx).Create(caregiverM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid patient reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create caregiver")
	}

	caregiver.ID = caregiverM.ID
	caregiver.CreatedAt = caregiverM.CreatedAt
	caregiver.UpdatedAt = caregiverM.UpdatedAt

	return nil
}

// UpdateCaregiver overwrites an existing caregiver link.
func (repo *caregiverRepository) UpdateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error {
	caregiverM := fromCaregiverDomain(caregiver)

	result := repo.db.WithContext(ctx).
		Model(&model.CaregiverModel{}).
		Where("id = ? AND patient_id = ?", caregiver.ID, caregiver.PatientID).
		Select("*").
		Omit("id", "patient_id", "created_at").
		Updates(caregiverM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update caregiver")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCaregiverNotFound
	}

	return nil
}

// DeleteCaregiver removes a caregiver link.
func (repo *caregiverRepository) DeleteCaregiver(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CaregiverModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete caregiver")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCaregiverNotFound
	}

	return nil
}

// FindCaregiverByID retrieves a caregiver link by its unique ID.
func (repo *caregiverRepository) FindCaregiverByID(ctx context.Context, id uuid.UUID) (*entity.Caregiver, error) {
	var caregiverM model.CaregiverModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&caregiverM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCaregiverNotFound
		}

		return nil, errors.Wrap(err, "failed to find caregiver by ID")
	}

	return toCaregiverDomain(&caregiverM), nil
}

// FindCaregiversByPatient retrieves all caregiver links owned by a patient.
func (repo *caregiverRepository) FindCaregiversByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Caregiver, error) {
	var caregiverModels []*model.CaregiverModel

	if err := repo.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&caregiverModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find caregivers by patient")
	}

	caregivers := make([]*entity.Caregiver, 0, len(caregiverModels))
	for _, caregiverM := range caregiverModels {
		caregivers = append(caregivers, toCaregiverDomain(caregiverM))
	}

	return caregivers, nil
}

// FindActiveRelationship retrieves the active link between a caregiver account
// and a patient.
func (repo *caregiverRepository) FindActiveRelationship(ctx context.Context, caregiverUserID, patientID uuid.UUID) (*entity.Caregiver, error) {
	var caregiverM model.CaregiverModel

	err := repo.db.WithContext(ctx).
		Where("caregiver_user_id = ? AND patient_id = ? AND is_active = ?", caregiverUserID, patientID, true).
		First(&caregiverM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCaregiverNotFound
		}

		return nil, errors.Wrap(err, "failed to find active caregiver relationship")
	}

	return toCaregiverDomain(&caregiverM), nil
}

// --- Mapper Functions ---

func toCaregiverDomain(data *model.CaregiverModel) *entity.Caregiver {
	if data == nil {
		return nil
	}

	return &entity.Caregiver{
		ID:                 data.ID,
		PatientID:          data.PatientID,
		CaregiverUserID:    data.CaregiverUserID,
		Name:               data.Name,
		Phone:              data.Phone,
		Email:              data.Email,
		Relationship:       data.Relationship,
		IsActive:           data.IsActive,
		CanViewMedications: data.CanViewMedications,
		CanViewDoses:       data.CanViewDoses,
		NotifyMissedDose:   data.NotifyMissedDose,
		NotifyLowStock:     data.NotifyLowStock,
		NotifyEmergency:    data.NotifyEmergency,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func fromCaregiverDomain(data *entity.Caregiver) *model.CaregiverModel {
	if data == nil {
		return nil
	}

	return &model.CaregiverModel{
		ID:                 data.ID,
		PatientID:          data.PatientID,
		CaregiverUserID:    data.CaregiverUserID,
		Name:               data.Name,
		Phone:              data.Phone,
		Email:              data.Email,
		Relationship:       data.Relationship,
		IsActive:           data.IsActive,
		CanViewMedications: data.CanViewMedications,
		CanViewDoses:       data.CanViewDoses,
		NotifyMissedDose:   data.NotifyMissedDose,
		NotifyLowStock:     data.NotifyLowStock,
		NotifyEmergency:    data.NotifyEmergency,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
