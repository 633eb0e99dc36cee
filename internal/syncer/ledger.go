package syncer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind enumerates the entity collections the engine mirrors.
type Kind string

const (
	KindMedication Kind = "medication"
	KindDose       Kind = "dose_record"
	KindVoiceNote  Kind = "voice_note"
)

// Op is the mutation recorded by a ledger entry.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is one local mutation waiting to be replayed against the remote
// backend. Payload carries the full record for create/update and is empty
// for delete.
type Change struct {
	ID       uuid.UUID       `json:"id"`
	Kind     Kind            `json:"kind"`
	Op       Op              `json:"op"`
	RecordID uuid.UUID       `json:"record_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	QueuedAt time.Time       `json:"queued_at"`
}

// Ledger is the durable queue of local mutations. Every Append persists the
// whole ledger to the blob store so entries survive process restarts until
// the orchestrator confirms the matching remote write.
//
// Entries coalesce per record: a later update replaces an earlier
// create/update payload in place (keeping the original op, so an unpushed
// create stays a create), and a delete supersedes any earlier entries for
// the record. A delete of a record whose create was never pushed cancels
// both, since the remote never saw the record.
type Ledger struct {
	blobs   BlobStore
	entries []Change
}

// NewLedger loads any persisted entries from the blob store.
func NewLedger(blobs BlobStore) (*Ledger, error) {
	raw, ok, err := blobs.Get(KeyLedger)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{blobs: blobs}
	if ok {
		if err := json.Unmarshal(raw, &ledger.entries); err != nil {
			return nil, errors.Wrap(err, "decode pending-change ledger")
		}
	}

	return ledger, nil
}

// Append records a mutation, coalescing against existing entries for the
// same record, and persists the result.
func (l *Ledger) Append(change Change) error {
	if change.ID == uuid.Nil {
		change.ID = uuid.New()
	}
	if change.QueuedAt.IsZero() {
		change.QueuedAt = time.Now().UTC()
	}

	switch change.Op {
	case OpDelete:
		hadUnpushedCreate := false
		l.entries = filterEntries(l.entries, func(e Change) bool {
			if e.Kind == change.Kind && e.RecordID == change.RecordID {
				if e.Op == OpCreate {
					hadUnpushedCreate = true
				}

				return false
			}

			return true
		})
		if !hadUnpushedCreate {
			l.entries = append(l.entries, change)
		}
	case OpUpdate:
		coalesced := false
		for i, e := range l.entries {
			if e.Kind == change.Kind && e.RecordID == change.RecordID && e.Op != OpDelete {
				l.entries[i].Payload = change.Payload
				l.entries[i].QueuedAt = change.QueuedAt
				coalesced = true

				break
			}
		}
		if !coalesced {
			l.entries = append(l.entries, change)
		}
	default:
		l.entries = append(l.entries, change)
	}

	return l.save()
}

// List returns the entries in insertion order. The returned slice is a copy.
func (l *Ledger) List() []Change {
	out := make([]Change, len(l.entries))
	copy(out, l.entries)

	return out
}

// Len reports the number of pending entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clear removes the entries with the given ids (confirmed remote writes) and
// persists the result.
func (l *Ledger) Clear(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	confirmed := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		confirmed[id] = struct{}{}
	}

	l.entries = filterEntries(l.entries, func(e Change) bool {
		_, ok := confirmed[e.ID]

		return !ok
	})

	return l.save()
}

// PendingRecords returns, per record id, the op still awaiting confirmation
// for the given kind. The full-sync replace step uses this to protect local
// records from being overwritten by a pull.
func (l *Ledger) PendingRecords(kind Kind) map[uuid.UUID]Op {
	pending := make(map[uuid.UUID]Op)
	for _, e := range l.entries {
		if e.Kind == kind {
			pending[e.RecordID] = e.Op
		}
	}

	return pending
}

// HasPending reports whether the record has an unconfirmed entry.
func (l *Ledger) HasPending(kind Kind, recordID uuid.UUID) bool {
	for _, e := range l.entries {
		if e.Kind == kind && e.RecordID == recordID {
			return true
		}
	}

	return false
}

func (l *Ledger) save() error {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		return errors.Wrap(err, "encode pending-change ledger")
	}

	return l.blobs.Set(KeyLedger, raw)
}

func filterEntries(entries []Change, keep func(Change) bool) []Change {
	out := entries[:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}

	return out
}
