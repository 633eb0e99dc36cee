package syncer

import (
	"testing"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicationRowTranslation(t *testing.T) {
	stock := 12
	threshold := 5
	med := entity.Medication{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Name:              "Metformin",
		DoseAmount:        500,
		DoseUnit:          entity.DoseUnitMg,
		Frequency:         entity.Frequency{Type: "daily", Value: 2},
		Schedules:         []string{"08:00", "20:00"},
		Instructions:      []string{"with food", "avoid alcohol"},
		Status:            entity.MedicationStatusActive,
		Stock:             &stock,
		StockUnit:         "tablet",
		LowStockThreshold: &threshold,
		IsCritical:        true,
		CreatedAt:         time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}

	row := MedicationToRow(med)
	assert.Equal(t, "Metformin", row.MedName)
	assert.Equal(t, "08:00,20:00", row.ScheduleTimes)
	assert.Equal(t, "daily", row.FrequencyType)

	back, err := MedicationFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, med, back)
}

func TestDoseRowTranslation(t *testing.T) {
	takenAt := time.Date(2026, 8, 29, 8, 5, 0, 0, time.UTC)
	record := entity.DoseRecord{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		MedicationID:  uuid.New(),
		ScheduledTime: "08:00",
		Date:          "2026-08-29",
		Status:        entity.DoseStatusTaken,
		TakenAt:       &takenAt,
		CreatedAt:     takenAt,
		UpdatedAt:     takenAt,
	}

	row := DoseToRow(record)
	assert.Equal(t, "2026-08-29", row.DoseDate)
	assert.Equal(t, "taken", row.Status)

	back, err := DoseFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, record, back)
}

func TestDoseRowTranslation_NoTakenAt(t *testing.T) {
	record := entity.DoseRecord{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		MedicationID:  uuid.New(),
		ScheduledTime: "20:00",
		Date:          "2026-08-29",
		Status:        entity.DoseStatusSkipped,
	}

	row := DoseToRow(record)
	assert.Empty(t, row.TakenAt)

	back, err := DoseFromRow(row)
	require.NoError(t, err)
	assert.Nil(t, back.TakenAt)
}

func TestMedicationFromRow_RejectsBadIDs(t *testing.T) {
	_, err := MedicationFromRow(MedicationRow{ID: "not-a-uuid", UserID: uuid.NewString()})
	assert.Error(t, err)
}
