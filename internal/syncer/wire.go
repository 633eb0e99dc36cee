package syncer

import (
	"strings"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// Wire row shapes exchanged with the sync endpoints. The remote schema keeps
// flattened, string-heavy columns; translating to and from the domain
// entities is pure field renaming and type coercion.

// MedicationRow is the remote row shape for a medication.
type MedicationRow struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	MedName           string  `json:"med_name"`
	GenericName       string  `json:"generic_name,omitempty"`
	DoseAmount        float64 `json:"dose_amount"`
	DoseUnit          string  `json:"dose_unit"`
	FrequencyType     string  `json:"frequency_type"`
	FrequencyValue    int     `json:"frequency_value"`
	ScheduleTimes     string  `json:"schedule_times"` // comma-joined "HH:MM" list
	Instructions      string  `json:"instructions,omitempty"`
	Status            string  `json:"status"`
	Stock             *int    `json:"stock,omitempty"`
	StockUnit         string  `json:"stock_unit,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	IsCritical        bool    `json:"is_critical"`
	AlertDelayMinutes int     `json:"alert_delay_minutes,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// DoseRow is the remote row shape for a dose record.
type DoseRow struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	MedicationID  string `json:"medication_id"`
	ScheduledTime string `json:"scheduled_time"`
	DoseDate      string `json:"dose_date"`
	Status        string `json:"status"`
	TakenAt       string `json:"taken_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// VoiceNoteRow is the remote row shape for a voice note.
type VoiceNoteRow struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	MedicationID    string `json:"medication_id,omitempty"`
	NoteDate        string `json:"note_date"`
	DurationSeconds int    `json:"duration_seconds"`
	Transcript      string `json:"transcript,omitempty"`
	AudioURL        string `json:"audio_url"`
	CreatedAt       string `json:"created_at"`
}

// NotificationRow is the remote row shape for a notification. Pull-only; the
// device never authors notifications.
type NotificationRow struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	Priority  int               `json:"priority"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// MedicationToRow flattens a medication for the wire.
func MedicationToRow(m entity.Medication) MedicationRow {
	return MedicationRow{
		ID:                m.ID.String(),
		UserID:            m.UserID.String(),
		MedName:           m.Name,
		GenericName:       m.GenericName,
		DoseAmount:        m.DoseAmount,
		DoseUnit:          string(m.DoseUnit),
		FrequencyType:     m.Frequency.Type,
		FrequencyValue:    m.Frequency.Value,
		ScheduleTimes:     strings.Join(m.Schedules, ","),
		Instructions:      strings.Join(m.Instructions, "\n"),
		Status:            string(m.Status),
		Stock:             m.Stock,
		StockUnit:         m.StockUnit,
		LowStockThreshold: m.LowStockThreshold,
		IsCritical:        m.IsCritical,
		AlertDelayMinutes: m.AlertDelayMinutes,
		CreatedAt:         wireTime(m.CreatedAt),
		UpdatedAt:         wireTime(m.UpdatedAt),
	}
}

// MedicationFromRow parses a pulled medication row.
func MedicationFromRow(row MedicationRow) (entity.Medication, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entity.Medication{}, err
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entity.Medication{}, err
	}

	return entity.Medication{
		ID:                id,
		UserID:            userID,
		Name:              row.MedName,
		GenericName:       row.GenericName,
		DoseAmount:        row.DoseAmount,
		DoseUnit:          entity.DoseUnit(row.DoseUnit),
		Frequency:         entity.Frequency{Type: row.FrequencyType, Value: row.FrequencyValue},
		Schedules:         splitList(row.ScheduleTimes, ","),
		Instructions:      splitList(row.Instructions, "\n"),
		Status:            entity.MedicationStatus(row.Status),
		Stock:             row.Stock,
		StockUnit:         row.StockUnit,
		LowStockThreshold: row.LowStockThreshold,
		IsCritical:        row.IsCritical,
		AlertDelayMinutes: row.AlertDelayMinutes,
		CreatedAt:         parseWireTime(row.CreatedAt),
		UpdatedAt:         parseWireTime(row.UpdatedAt),
	}, nil
}

// DoseToRow flattens a dose record for the wire.
func DoseToRow(d entity.DoseRecord) DoseRow {
	row := DoseRow{
		ID:            d.ID.String(),
		UserID:        d.UserID.String(),
		MedicationID:  d.MedicationID.String(),
		ScheduledTime: d.ScheduledTime,
		DoseDate:      d.Date,
		Status:        string(d.Status),
		CreatedAt:     wireTime(d.CreatedAt),
		UpdatedAt:     wireTime(d.UpdatedAt),
	}
	if d.TakenAt != nil {
		row.TakenAt = wireTime(*d.TakenAt)
	}

	return row
}

// DoseFromRow parses a pulled dose row.
func DoseFromRow(row DoseRow) (entity.DoseRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entity.DoseRecord{}, err
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entity.DoseRecord{}, err
	}
	medicationID, err := uuid.Parse(row.MedicationID)
	if err != nil {
		return entity.DoseRecord{}, err
	}

	record := entity.DoseRecord{
		ID:            id,
		UserID:        userID,
		MedicationID:  medicationID,
		ScheduledTime: row.ScheduledTime,
		Date:          row.DoseDate,
		Status:        entity.DoseStatus(row.Status),
		CreatedAt:     parseWireTime(row.CreatedAt),
		UpdatedAt:     parseWireTime(row.UpdatedAt),
	}
	if row.TakenAt != "" {
		takenAt := parseWireTime(row.TakenAt)
		record.TakenAt = &takenAt
	}

	return record, nil
}

// VoiceNoteToRow flattens a voice note for the wire.
func VoiceNoteToRow(n entity.VoiceNote) VoiceNoteRow {
	row := VoiceNoteRow{
		ID:              n.ID.String(),
		UserID:          n.UserID.String(),
		NoteDate:        n.Date,
		DurationSeconds: n.DurationSeconds,
		Transcript:      n.Transcript,
		AudioURL:        n.AudioURL,
		CreatedAt:       wireTime(n.CreatedAt),
	}
	if n.MedicationID != nil {
		row.MedicationID = n.MedicationID.String()
	}

	return row
}

// VoiceNoteFromRow parses a pulled voice-note row.
func VoiceNoteFromRow(row VoiceNoteRow) (entity.VoiceNote, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entity.VoiceNote{}, err
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entity.VoiceNote{}, err
	}

	note := entity.VoiceNote{
		ID:              id,
		UserID:          userID,
		Date:            row.NoteDate,
		DurationSeconds: row.DurationSeconds,
		Transcript:      row.Transcript,
		AudioURL:        row.AudioURL,
		CreatedAt:       parseWireTime(row.CreatedAt),
	}
	if row.MedicationID != "" {
		medicationID, err := uuid.Parse(row.MedicationID)
		if err != nil {
			return entity.VoiceNote{}, err
		}
		note.MedicationID = &medicationID
	}

	return note, nil
}

// NotificationToRow flattens a notification for the wire.
func NotificationToRow(n entity.Notification) NotificationRow {
	return NotificationRow{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		Priority:  n.Priority,
		Payload:   n.Payload,
		CreatedAt: wireTime(n.CreatedAt),
	}
}

// NotificationFromRow parses a pulled notification row.
func NotificationFromRow(row NotificationRow) (entity.Notification, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return entity.Notification{}, err
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return entity.Notification{}, err
	}

	return entity.Notification{
		ID:        id,
		UserID:    userID,
		Type:      entity.NotificationType(row.Type),
		Title:     row.Title,
		Message:   row.Message,
		Read:      row.Read,
		Priority:  row.Priority,
		Payload:   row.Payload,
		CreatedAt: parseWireTime(row.CreatedAt),
	}, nil
}

func wireTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func parseWireTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}

	return time.Time{}
}

func splitList(raw, sep string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
