package syncer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncHarness struct {
	blobs        BlobStore
	ledger       *Ledger
	store        *LocalStore
	backend      *fakeBackend
	orchestrator *Orchestrator
}

func newSyncHarness(t *testing.T) *syncHarness {
	t.Helper()

	blobs := NewMemoryStore()
	ledger, err := NewLedger(blobs)
	require.NoError(t, err)
	store, err := NewLocalStore(blobs, ledger)
	require.NoError(t, err)

	backend := newFakeBackend()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := NewOrchestrator(store, ledger, NewMirror(backend), blobs, OrchestratorConfig{
		Interval: time.Minute,
		Timeout:  5 * time.Second,
	}, logger)

	return &syncHarness{
		blobs:        blobs,
		ledger:       ledger,
		store:        store,
		backend:      backend,
		orchestrator: orchestrator,
	}
}

// queueMedicationCreate applies a local create the way the session does:
// store edit plus ledger entry.
func (h *syncHarness) queueMedicationCreate(t *testing.T, med entity.Medication) {
	t.Helper()

	require.NoError(t, h.store.UpsertMedication(med))

	payload, err := json.Marshal(med)
	require.NoError(t, err)
	require.NoError(t, h.ledger.Append(Change{
		Kind:     KindMedication,
		Op:       OpCreate,
		RecordID: med.ID,
		Payload:  payload,
	}))
}

func TestOrchestrator_SuccessfulSyncEndsIdle(t *testing.T) {
	h := newSyncHarness(t)

	remote := testMedication("remote med")
	h.backend.medications = []MedicationRow{MedicationToRow(remote)}

	state := h.orchestrator.Sync(context.Background())
	assert.Equal(t, StateIdle, state)

	status := h.orchestrator.Status()
	assert.Empty(t, status.LastError)
	assert.False(t, status.LastSyncAt.IsZero())

	meds := h.store.Medications()
	require.Len(t, meds, 1)
	assert.Equal(t, remote.ID, meds[0].ID)
}

func TestOrchestrator_ConnectivityFailureEndsOffline(t *testing.T) {
	h := newSyncHarness(t)
	h.backend.reachable = false

	assert.Equal(t, StateOffline, h.orchestrator.Sync(context.Background()))
}

func TestOrchestrator_AuthFailureEndsIdle(t *testing.T) {
	h := newSyncHarness(t)
	h.backend.authed = false

	med := testMedication("queued while signed out")
	h.queueMedicationCreate(t, med)

	// Not an error: nothing to do without a session, and the ledger keeps
	// the entry for later.
	assert.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))
	assert.Equal(t, 1, h.ledger.Len())
	assert.Empty(t, h.orchestrator.Status().LastError)
}

func TestOrchestrator_PushFailureEndsErrorAndRetainsLedgerEntry(t *testing.T) {
	h := newSyncHarness(t)
	h.backend.failUpsertMedication = true

	remote := testMedication("remote med")
	h.backend.medications = []MedicationRow{MedicationToRow(remote)}

	local := testMedication("failing local create")
	h.queueMedicationCreate(t, local)

	// The pull still succeeds, but the cycle ends in error and the failed
	// entry is not cleared.
	state := h.orchestrator.Sync(context.Background())
	assert.Equal(t, StateError, state)
	assert.Equal(t, 1, h.ledger.Len())
	assert.NotEmpty(t, h.orchestrator.Status().LastError)

	// The pending create protected the local record through the pull.
	ids := make([]uuid.UUID, 0, 2)
	for _, m := range h.store.Medications() {
		ids = append(ids, m.ID)
	}
	assert.Contains(t, ids, local.ID)
	assert.Contains(t, ids, remote.ID)
}

func TestOrchestrator_PullFailureEndsError(t *testing.T) {
	h := newSyncHarness(t)
	h.backend.failListDoses = true

	assert.Equal(t, StateError, h.orchestrator.Sync(context.Background()))
	assert.NotEmpty(t, h.orchestrator.Status().LastError)
}

func TestOrchestrator_OfflineEditReplayedOnReconnect(t *testing.T) {
	h := newSyncHarness(t)

	// Offline signal forces the state regardless of anything else.
	h.orchestrator.HandleOffline()
	assert.Equal(t, StateOffline, h.orchestrator.Status().State)

	med := testMedication("taken while offline")
	h.queueMedicationCreate(t, med)
	require.Equal(t, 1, h.ledger.Len())

	// Reconnect: pending processing replays the entry, then the full sync
	// leaves local equal to remote.
	state := h.orchestrator.HandleOnline(context.Background())
	assert.Equal(t, StateIdle, state)
	assert.Zero(t, h.ledger.Len())

	require.Len(t, h.backend.medications, 1)
	assert.Equal(t, med.ID.String(), h.backend.medications[0].ID)

	meds := h.store.Medications()
	require.Len(t, meds, 1)
	assert.Equal(t, med.ID, meds[0].ID)
}

func TestOrchestrator_ProcessPendingIsIdempotent(t *testing.T) {
	h := newSyncHarness(t)

	med := testMedication("replay once")
	h.queueMedicationCreate(t, med)

	require.Equal(t, StateIdle, h.orchestrator.ProcessPending(context.Background()))
	pushesAfterFirst := len(h.backend.calls)

	// No new local edits: the second run has nothing to replay.
	require.Equal(t, StateIdle, h.orchestrator.ProcessPending(context.Background()))
	assert.Equal(t, pushesAfterFirst, len(h.backend.calls))
	assert.Zero(t, h.ledger.Len())
}

func TestOrchestrator_MedicationDeleteCascadesDosesFirst(t *testing.T) {
	h := newSyncHarness(t)

	medID := uuid.New()
	require.NoError(t, h.ledger.Append(Change{
		Kind:     KindMedication,
		Op:       OpDelete,
		RecordID: medID,
	}))

	require.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))

	require.Len(t, h.backend.calls, 2)
	assert.Equal(t, "delete_doses_by_medication:"+medID.String(), h.backend.calls[0])
	assert.Equal(t, "delete_medication:"+medID.String(), h.backend.calls[1])
}

func TestOrchestrator_ReentrantSyncIsDropped(t *testing.T) {
	h := newSyncHarness(t)

	// Force the syncing state as if a cycle were in flight.
	require.True(t, h.orchestrator.begin())

	assert.Equal(t, StateSyncing, h.orchestrator.Sync(context.Background()))
	assert.Equal(t, StateSyncing, h.orchestrator.ProcessPending(context.Background()))
	assert.Empty(t, h.backend.calls)
}

func TestOrchestrator_OfflineSignalDoesNotUnblockInFlightCycle(t *testing.T) {
	h := newSyncHarness(t)

	require.True(t, h.orchestrator.begin())

	// The offline signal overwrites the visible state, but the in-flight
	// cycle still holds the store; a new sync must stay dropped.
	h.orchestrator.HandleOffline()
	assert.Equal(t, StateOffline, h.orchestrator.Status().State)
	assert.Equal(t, StateSyncing, h.orchestrator.Sync(context.Background()))
	assert.Empty(t, h.backend.calls)

	// Once the cycle finishes, the next trigger proceeds normally.
	h.orchestrator.finish(StateIdle, "")
	assert.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))
}

func TestOrchestrator_MarkNotificationReadConfirmsRemotely(t *testing.T) {
	h := newSyncHarness(t)

	n := testNotification(false)
	h.backend.rows = []NotificationRow{NotificationToRow(n)}
	require.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))

	require.NoError(t, h.orchestrator.MarkNotificationRead(context.Background(), n.ID))

	cached := h.store.Notifications()
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Read)
	assert.True(t, h.backend.rows[0].Read)
	assert.Contains(t, h.backend.calls, "mark_notification_read:"+n.ID.String())
}

func TestOrchestrator_MarkNotificationReadKeepsLocalFlipOnRemoteFailure(t *testing.T) {
	h := newSyncHarness(t)

	n := testNotification(false)
	h.backend.rows = []NotificationRow{NotificationToRow(n)}
	require.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))

	// The remote confirmation fails, but the optimistic local flip is kept
	// and the caller sees no error.
	h.backend.failMarkRead = true
	require.NoError(t, h.orchestrator.MarkNotificationRead(context.Background(), n.ID))

	cached := h.store.Notifications()
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Read)
	assert.False(t, h.backend.rows[0].Read)
}

func TestOrchestrator_MarkAllNotificationsReadConfirmsEachUnread(t *testing.T) {
	h := newSyncHarness(t)

	unreadA := testNotification(false)
	unreadB := testNotification(false)
	alreadyRead := testNotification(true)
	h.backend.rows = []NotificationRow{
		NotificationToRow(unreadA),
		NotificationToRow(unreadB),
		NotificationToRow(alreadyRead),
	}
	require.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))
	h.backend.calls = nil

	require.NoError(t, h.orchestrator.MarkAllNotificationsRead(context.Background()))

	for _, cached := range h.store.Notifications() {
		assert.True(t, cached.Read)
	}

	// Only the two flipped notifications produce a confirmation call.
	require.Len(t, h.backend.calls, 2)
	assert.Contains(t, h.backend.calls, "mark_notification_read:"+unreadA.ID.String())
	assert.Contains(t, h.backend.calls, "mark_notification_read:"+unreadB.ID.String())
}

func TestOrchestrator_LastSyncSurvivesRestart(t *testing.T) {
	h := newSyncHarness(t)

	require.Equal(t, StateIdle, h.orchestrator.Sync(context.Background()))
	first := h.orchestrator.Status().LastSyncAt
	require.False(t, first.IsZero())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := NewOrchestrator(h.store, h.ledger, NewMirror(h.backend), h.blobs, OrchestratorConfig{
		Interval: time.Minute,
		Timeout:  5 * time.Second,
	}, logger)

	assert.Equal(t, first.Unix(), restarted.Status().LastSyncAt.Unix())
}
