package syncer

import (
	"context"
	"encoding/json"

	"medtrack/internal/domain/entity"

	"github.com/pkg/errors"
)

// Backend is the wire-level client the mirror adapter drives. List calls
// return rows ordered by creation time descending. Implementations never
// retry; every failure is reported to the caller and retry policy stays with
// the orchestrator.
type Backend interface {
	// CheckConnectivity probes basic reachability without authentication.
	CheckConnectivity(ctx context.Context) error
	// CheckSession reports whether the backend considers the session
	// authenticated. A false return is not an error.
	CheckSession(ctx context.Context) (bool, error)

	ListMedications(ctx context.Context) ([]MedicationRow, error)
	UpsertMedication(ctx context.Context, row MedicationRow) error
	DeleteMedication(ctx context.Context, id string) error
	// DeleteDosesByMedication removes the dose rows referencing a
	// medication. The backend does not cascade deletes itself.
	DeleteDosesByMedication(ctx context.Context, medicationID string) error

	ListDoses(ctx context.Context) ([]DoseRow, error)
	UpsertDose(ctx context.Context, row DoseRow) error
	DeleteDose(ctx context.Context, id string) error

	ListVoiceNotes(ctx context.Context) ([]VoiceNoteRow, error)
	UpsertVoiceNote(ctx context.Context, row VoiceNoteRow) error
	DeleteVoiceNote(ctx context.Context, id string) error

	ListNotifications(ctx context.Context) ([]NotificationRow, error)
	// MarkNotificationRead confirms a local optimistic read-flag flip.
	MarkNotificationRead(ctx context.Context, id string) error
}

// Mirror translates between domain entities and the backend's wire rows.
// Translation is field renaming and type coercion only; no business logic
// lives here, and failures pass straight through to the caller.
type Mirror struct {
	backend Backend
}

// NewMirror wraps a wire-level backend.
func NewMirror(backend Backend) *Mirror {
	return &Mirror{backend: backend}
}

// PullMedications fetches the authoritative medication set.
func (m *Mirror) PullMedications(ctx context.Context) ([]entity.Medication, error) {
	rows, err := m.backend.ListMedications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Medication, 0, len(rows))
	for _, row := range rows {
		med, err := MedicationFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode medication row %s", row.ID)
		}
		out = append(out, med)
	}

	return out, nil
}

// PullDoseRecords fetches the authoritative dose set.
func (m *Mirror) PullDoseRecords(ctx context.Context) ([]entity.DoseRecord, error) {
	rows, err := m.backend.ListDoses(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entity.DoseRecord, 0, len(rows))
	for _, row := range rows {
		record, err := DoseFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode dose row %s", row.ID)
		}
		out = append(out, record)
	}

	return out, nil
}

// PullVoiceNotes fetches the authoritative voice-note set.
func (m *Mirror) PullVoiceNotes(ctx context.Context) ([]entity.VoiceNote, error) {
	rows, err := m.backend.ListVoiceNotes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entity.VoiceNote, 0, len(rows))
	for _, row := range rows {
		note, err := VoiceNoteFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode voice-note row %s", row.ID)
		}
		out = append(out, note)
	}

	return out, nil
}

// PullNotifications fetches the user's notifications for the local cache.
func (m *Mirror) PullNotifications(ctx context.Context) ([]entity.Notification, error) {
	rows, err := m.backend.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := NotificationFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode notification row %s", row.ID)
		}
		out = append(out, n)
	}

	return out, nil
}

// Push replays one ledger entry against the backend. Deleting a medication
// first deletes its dose rows, then the parent; the backend enforces no
// cascade of its own, so the ordering here is load-bearing.
func (m *Mirror) Push(ctx context.Context, change Change) error {
	switch change.Kind {
	case KindMedication:
		if change.Op == OpDelete {
			if err := m.backend.DeleteDosesByMedication(ctx, change.RecordID.String()); err != nil {
				return err
			}

			return m.backend.DeleteMedication(ctx, change.RecordID.String())
		}

		var med entity.Medication
		if err := json.Unmarshal(change.Payload, &med); err != nil {
			return errors.Wrap(err, "decode medication change payload")
		}

		return m.backend.UpsertMedication(ctx, MedicationToRow(med))

	case KindDose:
		if change.Op == OpDelete {
			return m.backend.DeleteDose(ctx, change.RecordID.String())
		}

		var record entity.DoseRecord
		if err := json.Unmarshal(change.Payload, &record); err != nil {
			return errors.Wrap(err, "decode dose change payload")
		}

		return m.backend.UpsertDose(ctx, DoseToRow(record))

	case KindVoiceNote:
		if change.Op == OpDelete {
			return m.backend.DeleteVoiceNote(ctx, change.RecordID.String())
		}

		var note entity.VoiceNote
		if err := json.Unmarshal(change.Payload, &note); err != nil {
			return errors.Wrap(err, "decode voice-note change payload")
		}

		return m.backend.UpsertVoiceNote(ctx, VoiceNoteToRow(note))

	default:
		return errors.Errorf("unknown change kind %q", change.Kind)
	}
}

// ConfirmNotificationRead propagates an optimistic local read-flag flip.
func (m *Mirror) ConfirmNotificationRead(ctx context.Context, id string) error {
	return m.backend.MarkNotificationRead(ctx, id)
}

// CheckConnectivity proxies the backend reachability probe.
func (m *Mirror) CheckConnectivity(ctx context.Context) error {
	return m.backend.CheckConnectivity(ctx)
}

// CheckSession proxies the backend session check.
func (m *Mirror) CheckSession(ctx context.Context) (bool, error) {
	return m.backend.CheckSession(ctx)
}
