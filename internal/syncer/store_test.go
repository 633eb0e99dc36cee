package syncer

import (
	"testing"
	"time"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, *Ledger) {
	t.Helper()

	blobs := NewMemoryStore()
	ledger, err := NewLedger(blobs)
	require.NoError(t, err)

	store, err := NewLocalStore(blobs, ledger)
	require.NoError(t, err)

	return store, ledger
}

func testMedication(name string) entity.Medication {
	return entity.Medication{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Name:      name,
		Status:    entity.MedicationStatusActive,
		Schedules: []string{"08:00", "20:00"},
	}
}

func testNotification(read bool) entity.Notification {
	return entity.Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      entity.NotificationReminder,
		Title:     "dose reminder",
		Message:   "time to take aspirin",
		Read:      read,
		Priority:  1,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestLocalStore_ReplaceOnPullMatchesRemoteExactly(t *testing.T) {
	store, _ := newTestStore(t)

	localOnly := testMedication("local only")
	require.NoError(t, store.UpsertMedication(localOnly))

	pulled := []entity.Medication{testMedication("remote a"), testMedication("remote b")}
	require.NoError(t, store.SetMedications(pulled))

	// No ledger entry protects the local-only record, so the pull wins.
	assert.Equal(t, pulled, store.Medications())
}

func TestLocalStore_PendingUpdateSurvivesReplace(t *testing.T) {
	store, ledger := newTestStore(t)

	med := testMedication("aspirin")
	med.Name = "aspirin (renamed offline)"
	require.NoError(t, store.UpsertMedication(med))
	require.NoError(t, ledger.Append(Change{Kind: KindMedication, Op: OpUpdate, RecordID: med.ID}))

	stale := med
	stale.Name = "aspirin"
	require.NoError(t, store.SetMedications([]entity.Medication{stale}))

	meds := store.Medications()
	require.Len(t, meds, 1)
	assert.Equal(t, "aspirin (renamed offline)", meds[0].Name)
	assert.True(t, store.IsPending(KindMedication, med.ID))
}

func TestLocalStore_PendingCreateSurvivesReplaceWhenPullOmitsIt(t *testing.T) {
	store, ledger := newTestStore(t)

	created := testMedication("created offline")
	require.NoError(t, store.UpsertMedication(created))
	require.NoError(t, ledger.Append(Change{Kind: KindMedication, Op: OpCreate, RecordID: created.ID}))

	remote := testMedication("already on remote")
	require.NoError(t, store.SetMedications([]entity.Medication{remote}))

	meds := store.Medications()
	require.Len(t, meds, 2)

	ids := []uuid.UUID{meds[0].ID, meds[1].ID}
	assert.Contains(t, ids, created.ID)
	assert.Contains(t, ids, remote.ID)
}

func TestLocalStore_PendingDeleteKeepsRecordGone(t *testing.T) {
	store, ledger := newTestStore(t)

	med := testMedication("deleted offline")
	require.NoError(t, store.UpsertMedication(med))
	require.NoError(t, store.RemoveMedication(med.ID))
	require.NoError(t, ledger.Append(Change{Kind: KindMedication, Op: OpDelete, RecordID: med.ID}))

	// Remote still returns the row because the delete has not been pushed.
	require.NoError(t, store.SetMedications([]entity.Medication{med}))

	assert.Empty(t, store.Medications())
}

func TestLocalStore_CollectionsSurviveRestart(t *testing.T) {
	blobs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := NewLedger(blobs)
	require.NoError(t, err)
	store, err := NewLocalStore(blobs, ledger)
	require.NoError(t, err)

	med := testMedication("persisted")
	require.NoError(t, store.UpsertMedication(med))

	reloadedLedger, err := NewLedger(blobs)
	require.NoError(t, err)
	reloaded, err := NewLocalStore(blobs, reloadedLedger)
	require.NoError(t, err)

	meds := reloaded.Medications()
	require.Len(t, meds, 1)
	assert.Equal(t, med.ID, meds[0].ID)
}

func TestLocalStore_RemoveMedicationCascadesDoses(t *testing.T) {
	store, _ := newTestStore(t)

	med := testMedication("cascade")
	other := testMedication("unrelated")
	require.NoError(t, store.UpsertMedication(med))
	require.NoError(t, store.UpsertMedication(other))

	require.NoError(t, store.UpsertDoseRecord(entity.DoseRecord{
		ID: uuid.New(), MedicationID: med.ID, Date: "2026-08-29", ScheduledTime: "08:00",
		Status: entity.DoseStatusTaken,
	}))
	require.NoError(t, store.UpsertDoseRecord(entity.DoseRecord{
		ID: uuid.New(), MedicationID: other.ID, Date: "2026-08-29", ScheduledTime: "08:00",
		Status: entity.DoseStatusPending,
	}))

	require.NoError(t, store.RemoveMedication(med.ID))

	doses := store.DoseRecords()
	require.Len(t, doses, 1)
	assert.Equal(t, other.ID, doses[0].MedicationID)
}

func TestLocalStore_UpsertDoseReplacesOnScheduleKey(t *testing.T) {
	store, _ := newTestStore(t)

	medID := uuid.New()
	first := entity.DoseRecord{
		ID: uuid.New(), MedicationID: medID, Date: "2026-08-29", ScheduledTime: "08:00",
		Status: entity.DoseStatusPending,
	}
	require.NoError(t, store.UpsertDoseRecord(first))

	// Same (medication, date, time) key under a different id replaces the
	// original record instead of duplicating it.
	second := first
	second.ID = uuid.New()
	second.Status = entity.DoseStatusTaken
	require.NoError(t, store.UpsertDoseRecord(second))

	doses := store.DoseRecords()
	require.Len(t, doses, 1)
	assert.Equal(t, entity.DoseStatusTaken, doses[0].Status)
}

func TestLocalStore_LowStockMedications(t *testing.T) {
	store, _ := newTestStore(t)

	low := testMedication("low")
	low.Stock = intPtr(2)
	low.LowStockThreshold = intPtr(5)

	fine := testMedication("fine")
	fine.Stock = intPtr(30)
	fine.LowStockThreshold = intPtr(5)

	inactive := testMedication("inactive low")
	inactive.Status = entity.MedicationStatusInactive
	inactive.Stock = intPtr(0)
	inactive.LowStockThreshold = intPtr(5)

	require.NoError(t, store.SetMedications([]entity.Medication{low, fine, inactive}))

	got := store.LowStockMedications()
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)
}

func TestLocalStore_MissedDoses(t *testing.T) {
	store, _ := newTestStore(t)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	med := testMedication("twice daily")
	med.Schedules = []string{"08:00", "20:00"}
	require.NoError(t, store.SetMedications([]entity.Medication{med}))

	missed := store.MissedDoses(now)
	require.Len(t, missed, 1)
	assert.Equal(t, "08:00", missed[0].ScheduledTime)
	assert.Equal(t, "2026-08-29", missed[0].Date)

	// A taken record resolves the slot.
	require.NoError(t, store.UpsertDoseRecord(entity.DoseRecord{
		ID: uuid.New(), MedicationID: med.ID, Date: "2026-08-29", ScheduledTime: "08:00",
		Status: entity.DoseStatusTaken,
	}))
	assert.Empty(t, store.MissedDoses(now))

	// A postponed record does not.
	require.NoError(t, store.UpsertDoseRecord(entity.DoseRecord{
		ID: uuid.New(), MedicationID: med.ID, Date: "2026-08-29", ScheduledTime: "08:00",
		Status: entity.DoseStatusPostponed,
	}))
	assert.Len(t, store.MissedDoses(now), 1)
}

func TestLocalStore_NotificationCacheKeepsMostRecent(t *testing.T) {
	store, _ := newTestStore(t)

	pulled := make([]entity.Notification, notificationCacheLimit+10)
	for i := range pulled {
		pulled[i] = testNotification(false)
	}
	require.NoError(t, store.SetNotifications(pulled))

	// Pulls arrive newest first, so the head of the slice survives.
	cached := store.Notifications()
	require.Len(t, cached, notificationCacheLimit)
	assert.Equal(t, pulled[0].ID, cached[0].ID)
	assert.Equal(t, pulled[notificationCacheLimit-1].ID, cached[notificationCacheLimit-1].ID)
}

func TestLocalStore_MarkNotificationReadPersists(t *testing.T) {
	blobs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := NewLedger(blobs)
	require.NoError(t, err)
	store, err := NewLocalStore(blobs, ledger)
	require.NoError(t, err)

	n := testNotification(false)
	require.NoError(t, store.SetNotifications([]entity.Notification{n}))

	flipped, err := store.MarkNotificationRead(n.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	// Flipping again or targeting an unknown id is a no-op.
	flipped, err = store.MarkNotificationRead(n.ID)
	require.NoError(t, err)
	assert.False(t, flipped)
	flipped, err = store.MarkNotificationRead(uuid.New())
	require.NoError(t, err)
	assert.False(t, flipped)

	reloadedLedger, err := NewLedger(blobs)
	require.NoError(t, err)
	reloaded, err := NewLocalStore(blobs, reloadedLedger)
	require.NoError(t, err)

	cached := reloaded.Notifications()
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Read)
}

func TestLocalStore_MarkAllNotificationsReadReportsFlippedIDs(t *testing.T) {
	store, _ := newTestStore(t)

	unreadA := testNotification(false)
	alreadyRead := testNotification(true)
	unreadB := testNotification(false)
	require.NoError(t, store.SetNotifications([]entity.Notification{unreadA, alreadyRead, unreadB}))

	flipped, err := store.MarkAllNotificationsRead()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{unreadA.ID, unreadB.ID}, flipped)

	for _, cached := range store.Notifications() {
		assert.True(t, cached.Read)
	}

	// Nothing left to flip on a second pass.
	flipped, err = store.MarkAllNotificationsRead()
	require.NoError(t, err)
	assert.Empty(t, flipped)
}

func intPtr(v int) *int {
	return &v
}
