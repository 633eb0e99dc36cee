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
	"gorm.io/gorm/clause"
)

// doseRepository implements the repository.DoseRepository interface.
type doseRepository struct {
	db *gorm.DB
}

// NewDoseRepository is the constructor for doseRepository.
func NewDoseRepository(db *gorm.DB) repository.DoseRepository {
	return &doseRepository{db: db}
}

// UpsertDoseRecord inserts or replaces the record keyed on
// (medication_id, date, scheduled_time).
func (repo *doseRepository) UpsertDoseRecord(ctx context.Context, dose *entity.DoseRecord) error {
	doseM := fromDoseDomain(dose)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "medication_id"},
				{Name: "date"},
				{Name: "scheduled_time"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"status", "taken_at", "updated_at"}),
		}).
		Create(doseM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid medication reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert dose record")
	}

	dose.ID = doseM.ID
	dose.CreatedAt = doseM.CreatedAt
	dose.UpdatedAt = doseM.UpdatedAt

	return nil
}

// DeleteDoseRecord removes a single dose record owned by the user.
func (repo *doseRepository) DeleteDoseRecord(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.DoseRecordModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete dose record")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDoseRecordNotFound
	}

	return nil
}

// DeleteDoseRecordsByMedication removes every dose record of a medication.
func (repo *doseRepository) DeleteDoseRecordsByMedication(ctx context.Context, medicationID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("medication_id = ?", medicationID).
		Delete(&model.DoseRecordModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete dose records by medication")
	}

	return nil
}

// FindDoseRecord retrieves the record for one scheduled intake, if any.
func (repo *doseRepository) FindDoseRecord(ctx context.Context, medicationID uuid.UUID, date, scheduledTime string) (*entity.DoseRecord, error) {
	var doseM model.DoseRecordModel

	err := repo.db.WithContext(ctx).
		Where("medication_id = ? AND date = ? AND scheduled_time = ?", medicationID, date, scheduledTime).
		First(&doseM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDoseRecordNotFound
		}

		return nil, errors.Wrap(err, "failed to find dose record")
	}

	return toDoseDomain(&doseM), nil
}

// FindDoseRecordsByUser retrieves a user's dose records within the inclusive
// date range. Date strings compare lexicographically in chronological order.
func (repo *doseRepository) FindDoseRecordsByUser(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]*entity.DoseRecord, error) {
	var doseModels []*model.DoseRecordModel

	query := repo.db.WithContext(ctx).Where("user_id = ?", userID)
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}
	if toDate != "" {
		query = query.Where("date <= ?", toDate)
	}

	if err := query.Order("created_at DESC").Find(&doseModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find dose records by user")
	}

	doses := make([]*entity.DoseRecord, 0, len(doseModels))
	for _, doseM := range doseModels {
		doses = append(doses, toDoseDomain(doseM))
	}

	return doses, nil
}

// FindDoseRecordsByMedicationAndDate retrieves all records of one medication
// on one calendar date.
func (repo *doseRepository) FindDoseRecordsByMedicationAndDate(ctx context.Context, medicationID uuid.UUID, date string) ([]*entity.DoseRecord, error) {
	var doseModels []*model.DoseRecordModel

	err := repo.db.WithContext(ctx).
		Where("medication_id = ? AND date = ?", medicationID, date).
		Order("scheduled_time ASC").
		Find(&doseModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find dose records by medication and date")
	}

	doses := make([]*entity.DoseRecord, 0, len(doseModels))
	for _, doseM := range doseModels {
		doses = append(doses, toDoseDomain(doseM))
	}

	return doses, nil
}

// --- Mapper Functions ---

func toDoseDomain(data *model.DoseRecordModel) *entity.DoseRecord {
	if data == nil {
		return nil
	}

	return &entity.DoseRecord{
		ID:            data.ID,
		UserID:        data.UserID,
		MedicationID:  data.MedicationID,
		ScheduledTime: data.ScheduledTime,
		Date:          data.Date,
		Status:        entity.DoseStatus(data.Status),
		TakenAt:       data.TakenAt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromDoseDomain(data *entity.DoseRecord) *model.DoseRecordModel {
	if data == nil {
		return nil
	}

	return &model.DoseRecordModel{
		ID:            data.ID,
		UserID:        data.UserID,
		MedicationID:  data.MedicationID,
		ScheduledTime: data.ScheduledTime,
		Date:          data.Date,
		Status:        string(data.Status),
		TakenAt:       data.TakenAt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
