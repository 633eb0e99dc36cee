package syncer

import (
	"context"

	"github.com/pkg/errors"
)

// fakeBackend is an in-memory Backend with switchable failure modes. It
// records the order of mutating calls so tests can assert cascade ordering.
type fakeBackend struct {
	reachable bool
	authed    bool

	medications []MedicationRow
	doses       []DoseRow
	voiceNotes  []VoiceNoteRow
	rows        []NotificationRow

	failUpsertMedication bool
	failUpsertDose       bool
	failListDoses        bool
	failMarkRead         bool

	calls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{reachable: true, authed: true}
}

func (f *fakeBackend) CheckConnectivity(context.Context) error {
	if !f.reachable {
		return errors.New("no route to host")
	}

	return nil
}

func (f *fakeBackend) CheckSession(context.Context) (bool, error) {
	return f.authed, nil
}

func (f *fakeBackend) ListMedications(context.Context) ([]MedicationRow, error) {
	return append([]MedicationRow(nil), f.medications...), nil
}

func (f *fakeBackend) UpsertMedication(_ context.Context, row MedicationRow) error {
	f.calls = append(f.calls, "upsert_medication:"+row.ID)
	if f.failUpsertMedication {
		return errors.New("upsert medication rejected")
	}

	for i, existing := range f.medications {
		if existing.ID == row.ID {
			f.medications[i] = row

			return nil
		}
	}
	f.medications = append(f.medications, row)

	return nil
}

func (f *fakeBackend) DeleteMedication(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete_medication:"+id)
	kept := f.medications[:0]
	for _, row := range f.medications {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	f.medications = kept

	return nil
}

func (f *fakeBackend) DeleteDosesByMedication(_ context.Context, medicationID string) error {
	f.calls = append(f.calls, "delete_doses_by_medication:"+medicationID)
	kept := f.doses[:0]
	for _, row := range f.doses {
		if row.MedicationID != medicationID {
			kept = append(kept, row)
		}
	}
	f.doses = kept

	return nil
}

func (f *fakeBackend) ListDoses(context.Context) ([]DoseRow, error) {
	if f.failListDoses {
		return nil, errors.New("list doses failed")
	}

	return append([]DoseRow(nil), f.doses...), nil
}

func (f *fakeBackend) UpsertDose(_ context.Context, row DoseRow) error {
	f.calls = append(f.calls, "upsert_dose:"+row.ID)
	if f.failUpsertDose {
		return errors.New("upsert dose rejected")
	}

	for i, existing := range f.doses {
		if existing.ID == row.ID {
			f.doses[i] = row

			return nil
		}
	}
	f.doses = append(f.doses, row)

	return nil
}

func (f *fakeBackend) DeleteDose(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete_dose:"+id)
	kept := f.doses[:0]
	for _, row := range f.doses {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	f.doses = kept

	return nil
}

func (f *fakeBackend) ListVoiceNotes(context.Context) ([]VoiceNoteRow, error) {
	return append([]VoiceNoteRow(nil), f.voiceNotes...), nil
}

func (f *fakeBackend) UpsertVoiceNote(_ context.Context, row VoiceNoteRow) error {
	f.calls = append(f.calls, "upsert_voice_note:"+row.ID)
	for i, existing := range f.voiceNotes {
		if existing.ID == row.ID {
			f.voiceNotes[i] = row

			return nil
		}
	}
	f.voiceNotes = append(f.voiceNotes, row)

	return nil
}

func (f *fakeBackend) DeleteVoiceNote(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete_voice_note:"+id)
	kept := f.voiceNotes[:0]
	for _, row := range f.voiceNotes {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	f.voiceNotes = kept

	return nil
}

func (f *fakeBackend) ListNotifications(context.Context) ([]NotificationRow, error) {
	return append([]NotificationRow(nil), f.rows...), nil
}

func (f *fakeBackend) MarkNotificationRead(_ context.Context, id string) error {
	f.calls = append(f.calls, "mark_notification_read:"+id)
	if f.failMarkRead {
		return errors.New("mark read rejected")
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Read = true
		}
	}

	return nil
}
