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

// voiceNoteRepository implements the repository.VoiceNoteRepository interface.
type voiceNoteRepository struct {
	db *gorm.DB
}

// NewVoiceNoteRepository is the constructor for voiceNoteRepository.
func NewVoiceNoteRepository(db *gorm.DB) repository.VoiceNoteRepository {
	return &voiceNoteRepository{db: db}
}

// CreateVoiceNote persists a new voice note.
func (repo *voiceNoteRepository) CreateVoiceNote(ctx context.Context, note *entity.VoiceNote) error {
	noteM := fromVoiceNoteDomain(note)

	if err := repo.db.WithContext(ctx).Create(noteM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid medication reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create voice note")
	}

	note.ID = noteM.ID
	note.CreatedAt = noteM.CreatedAt

	return nil
}

// UpsertVoiceNote inserts or replaces a voice note by id.
func (repo *voiceNoteRepository) UpsertVoiceNote(ctx context.Context, note *entity.VoiceNote) error {
	noteM := fromVoiceNoteDomain(note)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"date", "duration_seconds", "transcript", "audio_url"}),
		}).
		Create(noteM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("invalid medication reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert voice note")
	}

	note.CreatedAt = noteM.CreatedAt

	return nil
}

// DeleteVoiceNote removes a voice note owned by the user.
func (repo *voiceNoteRepository) DeleteVoiceNote(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.VoiceNoteModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete voice note")
	}

	if result.RowsAffected == 0 {
		return repository.ErrVoiceNoteNotFound
	}

	return nil
}

// FindVoiceNotesByUser retrieves a user's voice notes matching the filter.
func (repo *voiceNoteRepository) FindVoiceNotesByUser(ctx context.Context, userID uuid.UUID, filter repository.VoiceNoteFilter) ([]*entity.VoiceNote, error) {
	var noteModels []*model.VoiceNoteModel

	query := repo.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.FromDate != "" {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("date <= ?", filter.ToDate)
	}
	if filter.MedicationID != nil {
		query = query.Where("medication_id = ?", *filter.MedicationID)
	}

	if err := query.Order("created_at DESC").Find(&noteModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find voice notes by user")
	}

	notes := make([]*entity.VoiceNote, 0, len(noteModels))
	for _, noteM := range noteModels {
		notes = append(notes, toVoiceNoteDomain(noteM))
	}

	return notes, nil
}

// --- Mapper Functions ---

func toVoiceNoteDomain(data *model.VoiceNoteModel) *entity.VoiceNote {
	if data == nil {
		return nil
	}

	return &entity.VoiceNote{
		ID:              data.ID,
		UserID:          data.UserID,
		MedicationID:    data.MedicationID,
		Date:            data.Date,
		DurationSeconds: data.DurationSeconds,
		Transcript:      data.Transcript,
		AudioURL:        data.AudioURL,
		CreatedAt:       data.CreatedAt,
	}
}

func fromVoiceNoteDomain(data *entity.VoiceNote) *model.VoiceNoteModel {
	if data == nil {
		return nil
	}

	return &model.VoiceNoteModel{
		ID:              data.ID,
		UserID:          data.UserID,
		MedicationID:    data.MedicationID,
		Date:            data.Date,
		DurationSeconds: data.DurationSeconds,
		Transcript:      data.Transcript,
		AudioURL:        data.AudioURL,
		CreatedAt:       data.CreatedAt,
	}
}
