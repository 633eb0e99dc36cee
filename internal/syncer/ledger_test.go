package syncer

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func medicationPayload(t *testing.T, name string) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(map[string]string{"name": name})
	require.NoError(t, err)

	return raw
}

func TestLedger_AppendKeepsInsertionOrder(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()

	require.NoError(t, ledger.Append(Change{Kind: KindMedication, Op: OpCreate, RecordID: first}))
	require.NoError(t, ledger.Append(Change{Kind: KindDose, Op: OpCreate, RecordID: second}))

	entries := ledger.List()
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].RecordID)
	assert.Equal(t, second, entries[1].RecordID)
}

func TestLedger_UpdatesCoalesceToLatestPayload(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpUpdate, RecordID: recordID,
		Payload: medicationPayload(t, "aspirin"),
	}))
	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpUpdate, RecordID: recordID,
		Payload: medicationPayload(t, "aspirin 100mg"),
	}))

	entries := ledger.List()
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"name":"aspirin 100mg"}`, string(entries[0].Payload))
}

func TestLedger_UpdateAfterCreateKeepsCreateOp(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpCreate, RecordID: recordID,
		Payload: medicationPayload(t, "v1"),
	}))
	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpUpdate, RecordID: recordID,
		Payload: medicationPayload(t, "v2"),
	}))

	entries := ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, OpCreate, entries[0].Op)
	assert.JSONEq(t, `{"name":"v2"}`, string(entries[0].Payload))
}

func TestLedger_DeleteSupersedesEarlierUpdate(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, ledger.Append(Change{
		Kind: KindDose, Op: OpUpdate, RecordID: recordID,
		Payload: medicationPayload(t, "v1"),
	}))
	require.NoError(t, ledger.Append(Change{Kind: KindDose, Op: OpDelete, RecordID: recordID}))

	entries := ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, OpDelete, entries[0].Op)
}

func TestLedger_DeleteCancelsUnpushedCreate(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, ledger.Append(Change{
		Kind: KindVoiceNote, Op: OpCreate, RecordID: recordID,
		Payload: medicationPayload(t, "note"),
	}))
	require.NoError(t, ledger.Append(Change{Kind: KindVoiceNote, Op: OpDelete, RecordID: recordID}))

	// The remote never saw the record, so nothing remains to replay.
	assert.Zero(t, ledger.Len())
}

func TestLedger_EntriesSurviveRestart(t *testing.T) {
	blobs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := NewLedger(blobs)
	require.NoError(t, err)

	recordID := uuid.New()
	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpCreate, RecordID: recordID,
		Payload: medicationPayload(t, "offline edit"),
	}))

	// Simulate a process restart by reloading from the same data dir.
	reloaded, err := NewLedger(blobs)
	require.NoError(t, err)

	entries := reloaded.List()
	require.Len(t, entries, 1)
	assert.Equal(t, recordID, entries[0].RecordID)
	assert.Equal(t, OpCreate, entries[0].Op)
}

func TestLedger_ClearRemovesOnlyConfirmedEntries(t *testing.T) {
	blobs := NewMemoryStore()
	ledger, err := NewLedger(blobs)
	require.NoError(t, err)

	confirmed := Change{ID: uuid.New(), Kind: KindMedication, Op: OpCreate, RecordID: uuid.New()}
	retained := Change{ID: uuid.New(), Kind: KindDose, Op: OpCreate, RecordID: uuid.New()}

	require.NoError(t, ledger.Append(confirmed))
	require.NoError(t, ledger.Append(retained))
	require.NoError(t, ledger.Clear([]uuid.UUID{confirmed.ID}))

	entries := ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, retained.ID, entries[0].ID)

	// The cleared state is what a restart sees.
	reloaded, err := NewLedger(blobs)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

func TestLedger_PendingRecords(t *testing.T) {
	ledger, err := NewLedger(NewMemoryStore())
	require.NoError(t, err)

	updated := uuid.New()
	deleted := uuid.New()

	require.NoError(t, ledger.Append(Change{
		Kind: KindMedication, Op: OpUpdate, RecordID: updated,
		Payload: medicationPayload(t, "v1"),
	}))
	require.NoError(t, ledger.Append(Change{Kind: KindMedication, Op: OpDelete, RecordID: deleted}))
	require.NoError(t, ledger.Append(Change{Kind: KindDose, Op: OpCreate, RecordID: uuid.New()}))

	pending := ledger.PendingRecords(KindMedication)
	require.Len(t, pending, 2)
	assert.Equal(t, OpUpdate, pending[updated])
	assert.Equal(t, OpDelete, pending[deleted])

	assert.True(t, ledger.HasPending(KindMedication, updated))
	assert.False(t, ledger.HasPending(KindVoiceNote, updated))
}
