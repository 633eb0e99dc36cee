package syncer

import (
	"encoding/json"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MissedDose is a scheduled intake that has passed without a taken or
// skipped record. Derived on demand, never stored.
type MissedDose struct {
	Medication    entity.Medication `json:"medication"`
	Date          string            `json:"date"`
	ScheduledTime string            `json:"scheduled_time"`
}

// LocalStore holds the device-side mirror of the user's collections. Whole
// collections are replaced by pulls; individual records are edited locally
// through the Upsert/Remove methods, which the caller pairs with a ledger
// append. Every mutation persists the affected collection to the blob store.
//
// The store is single-session state driven from one event loop; it is not
// safe for concurrent use.
type LocalStore struct {
	blobs  BlobStore
	ledger *Ledger

	medications   []entity.Medication
	doses         []entity.DoseRecord
	notifications []entity.Notification
	voiceNotes    []entity.VoiceNote
}

// NewLocalStore loads any persisted collections from the blob store.
func NewLocalStore(blobs BlobStore, ledger *Ledger) (*LocalStore, error) {
	s := &LocalStore{blobs: blobs, ledger: ledger}

	if err := loadCollection(blobs, KeyMedications, &s.medications); err != nil {
		return nil, err
	}
	if err := loadCollection(blobs, KeyDoseRecords, &s.doses); err != nil {
		return nil, err
	}
	if err := loadCollection(blobs, KeyNotifications, &s.notifications); err != nil {
		return nil, err
	}
	if err := loadCollection(blobs, KeyVoiceNotes, &s.voiceNotes); err != nil {
		return nil, err
	}

	return s, nil
}

// SetMedications replaces the medication collection with the pulled set.
// Records with a still-pending ledger entry are protected: a pending
// create/update keeps the local version over the pulled one, and a pending
// delete keeps the record absent even if the pull still returns it.
func (s *LocalStore) SetMedications(pulled []entity.Medication) error {
	local := make(map[uuid.UUID]entity.Medication, len(s.medications))
	for _, m := range s.medications {
		local[m.ID] = m
	}

	s.medications = replaceProtected(pulled, local, s.ledger.PendingRecords(KindMedication),
		func(m entity.Medication) uuid.UUID { return m.ID })

	return s.saveCollection(KeyMedications, s.medications)
}

// SetDoseRecords replaces the dose collection, protecting pending records.
func (s *LocalStore) SetDoseRecords(pulled []entity.DoseRecord) error {
	local := make(map[uuid.UUID]entity.DoseRecord, len(s.doses))
	for _, d := range s.doses {
		local[d.ID] = d
	}

	s.doses = replaceProtected(pulled, local, s.ledger.PendingRecords(KindDose),
		func(d entity.DoseRecord) uuid.UUID { return d.ID })

	return s.saveCollection(KeyDoseRecords, s.doses)
}

// SetVoiceNotes replaces the voice-note collection, protecting pending
// records.
func (s *LocalStore) SetVoiceNotes(pulled []entity.VoiceNote) error {
	local := make(map[uuid.UUID]entity.VoiceNote, len(s.voiceNotes))
	for _, n := range s.voiceNotes {
		local[n.ID] = n
	}

	s.voiceNotes = replaceProtected(pulled, local, s.ledger.PendingRecords(KindVoiceNote),
		func(n entity.VoiceNote) uuid.UUID { return n.ID })

	return s.saveCollection(KeyVoiceNotes, s.voiceNotes)
}

// notificationCacheLimit caps the local notification cache. Pulls arrive
// newest first, so truncation keeps the most recent entries.
const notificationCacheLimit = 50

// SetNotifications replaces the notification cache, pruned to the most
// recent entries. Notifications are server-authored rows, so no pending
// protection applies; local read-flag flips go through MarkNotificationRead.
func (s *LocalStore) SetNotifications(pulled []entity.Notification) error {
	if len(pulled) > notificationCacheLimit {
		pulled = pulled[:notificationCacheLimit]
	}
	s.notifications = append([]entity.Notification(nil), pulled...)

	return s.saveCollection(KeyNotifications, s.notifications)
}

// Medications returns a copy of the medication collection.
func (s *LocalStore) Medications() []entity.Medication {
	return append([]entity.Medication(nil), s.medications...)
}

// DoseRecords returns a copy of the dose collection.
func (s *LocalStore) DoseRecords() []entity.DoseRecord {
	return append([]entity.DoseRecord(nil), s.doses...)
}

// Notifications returns a copy of the notification cache.
func (s *LocalStore) Notifications() []entity.Notification {
	return append([]entity.Notification(nil), s.notifications...)
}

// VoiceNotes returns a copy of the voice-note collection.
func (s *LocalStore) VoiceNotes() []entity.VoiceNote {
	return append([]entity.VoiceNote(nil), s.voiceNotes...)
}

// UpsertMedication applies a local edit. The caller appends the matching
// ledger entry.
func (s *LocalStore) UpsertMedication(m entity.Medication) error {
	s.medications = upsertByID(s.medications, m, func(x entity.Medication) uuid.UUID { return x.ID })

	return s.saveCollection(KeyMedications, s.medications)
}

// RemoveMedication applies a local delete, cascading to the medication's
// dose records the same way the remote backend does.
func (s *LocalStore) RemoveMedication(id uuid.UUID) error {
	s.medications = removeByID(s.medications, id, func(x entity.Medication) uuid.UUID { return x.ID })
	s.doses = filterSlice(s.doses, func(d entity.DoseRecord) bool { return d.MedicationID != id })

	if err := s.saveCollection(KeyDoseRecords, s.doses); err != nil {
		return err
	}

	return s.saveCollection(KeyMedications, s.medications)
}

// UpsertDoseRecord applies a local dose edit. A record matching the same
// (medication, date, scheduled time) key is replaced even when ids differ,
// mirroring the remote upsert key.
func (s *LocalStore) UpsertDoseRecord(d entity.DoseRecord) error {
	for i, existing := range s.doses {
		sameKey := existing.MedicationID == d.MedicationID &&
			existing.Date == d.Date &&
			existing.ScheduledTime == d.ScheduledTime
		if existing.ID == d.ID || sameKey {
			s.doses[i] = d

			return s.saveCollection(KeyDoseRecords, s.doses)
		}
	}

	s.doses = append(s.doses, d)

	return s.saveCollection(KeyDoseRecords, s.doses)
}

// RemoveDoseRecord applies a local dose delete.
func (s *LocalStore) RemoveDoseRecord(id uuid.UUID) error {
	s.doses = removeByID(s.doses, id, func(x entity.DoseRecord) uuid.UUID { return x.ID })

	return s.saveCollection(KeyDoseRecords, s.doses)
}

// UpsertVoiceNote applies a local voice-note edit.
func (s *LocalStore) UpsertVoiceNote(n entity.VoiceNote) error {
	s.voiceNotes = upsertByID(s.voiceNotes, n, func(x entity.VoiceNote) uuid.UUID { return x.ID })

	return s.saveCollection(KeyVoiceNotes, s.voiceNotes)
}

// RemoveVoiceNote applies a local voice-note delete.
func (s *LocalStore) RemoveVoiceNote(id uuid.UUID) error {
	s.voiceNotes = removeByID(s.voiceNotes, id, func(x entity.VoiceNote) uuid.UUID { return x.ID })

	return s.saveCollection(KeyVoiceNotes, s.voiceNotes)
}

// MarkNotificationRead flips one cached notification to read and persists
// the cache. Returns false when the id is unknown or the notification is
// already read, so callers skip the remote confirmation.
func (s *LocalStore) MarkNotificationRead(id uuid.UUID) (bool, error) {
	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if s.notifications[i].Read {
			return false, nil
		}
		s.notifications[i].Read = true

		return true, s.saveCollection(KeyNotifications, s.notifications)
	}

	return false, nil
}

// MarkAllNotificationsRead flips every unread cached notification and
// returns the ids that changed.
func (s *LocalStore) MarkAllNotificationsRead() ([]uuid.UUID, error) {
	var flipped []uuid.UUID
	for i := range s.notifications {
		if s.notifications[i].Read {
			continue
		}
		s.notifications[i].Read = true
		flipped = append(flipped, s.notifications[i].ID)
	}
	if len(flipped) == 0 {
		return nil, nil
	}

	return flipped, s.saveCollection(KeyNotifications, s.notifications)
}

// IsPending reports whether a record still has an unconfirmed ledger entry,
// so callers can render it as pending rather than confirmed.
func (s *LocalStore) IsPending(kind Kind, id uuid.UUID) bool {
	return s.ledger.HasPending(kind, id)
}

// LowStockMedications returns the active medications whose stock is at or
// below their threshold. Recomputed on every call.
func (s *LocalStore) LowStockMedications() []entity.Medication {
	var low []entity.Medication
	for _, m := range s.medications {
		if m.Status == entity.MedicationStatusActive && m.IsLowOnStock() {
			low = append(low, m)
		}
	}

	return low
}

// MissedDoses returns, for the date of now, every scheduled intake of an
// active medication whose clock time has passed without a taken or skipped
// record. Recomputed on every call.
func (s *LocalStore) MissedDoses(now time.Time) []MissedDose {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	byKey := make(map[string]entity.DoseRecord, len(s.doses))
	for _, d := range s.doses {
		byKey[doseKey(d.MedicationID, d.Date, d.ScheduledTime)] = d
	}

	var missed []MissedDose
	for _, m := range s.medications {
		if m.Status != entity.MedicationStatusActive {
			continue
		}
		for _, scheduled := range m.Schedules {
			if scheduled > clock {
				continue
			}
			if record, ok := byKey[doseKey(m.ID, date, scheduled)]; ok && record.Resolved() {
				continue
			}
			missed = append(missed, MissedDose{Medication: m, Date: date, ScheduledTime: scheduled})
		}
	}

	return missed
}

func (s *LocalStore) saveCollection(key string, collection any) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return errors.Wrapf(err, "encode collection %q", key)
	}

	return s.blobs.Set(key, raw)
}

func loadCollection[T any](blobs BlobStore, key string, into *[]T) error {
	raw, ok, err := blobs.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, into); err != nil {
		return errors.Wrapf(err, "decode collection %q", key)
	}

	return nil
}

func doseKey(medicationID uuid.UUID, date, scheduled string) string {
	return medicationID.String() + "|" + date + "|" + scheduled
}

func replaceProtected[T any](pulled []T, local map[uuid.UUID]T, pending map[uuid.UUID]Op, id func(T) uuid.UUID) []T {
	out := make([]T, 0, len(pulled))
	seen := make(map[uuid.UUID]struct{}, len(pulled))

	for _, record := range pulled {
		rid := id(record)
		seen[rid] = struct{}{}

		switch pending[rid] {
		case OpDelete:
			// Locally deleted, delete not yet confirmed: keep it gone.
			continue
		case OpCreate, OpUpdate:
			if localRecord, ok := local[rid]; ok {
				out = append(out, localRecord)

				continue
			}
		}

		out = append(out, record)
	}

	// Local records the pull did not return survive only while a pending
	// create/update protects them.
	for rid, op := range pending {
		if _, ok := seen[rid]; ok || op == OpDelete {
			continue
		}
		if localRecord, ok := local[rid]; ok {
			out = append(out, localRecord)
		}
	}

	return out
}

func upsertByID[T any](records []T, record T, id func(T) uuid.UUID) []T {
	rid := id(record)
	for i, existing := range records {
		if id(existing) == rid {
			records[i] = record

			return records
		}
	}

	return append(records, record)
}

func removeByID[T any](records []T, rid uuid.UUID, id func(T) uuid.UUID) []T {
	return filterSlice(records, func(r T) bool { return id(r) != rid })
}

func filterSlice[T any](records []T, keep func(T) bool) []T {
	out := records[:0]
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}

	return out
}
