package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"medtrack/internal/errors"

	"github.com/google/uuid"
)

// ErrNotAuthenticated marks a remote call rejected for lack of a valid
// session. The orchestrator treats it as "nothing to do", not as a failure.
var ErrNotAuthenticated = errors.New("syncer: not authenticated")

// State is the orchestrator's externally visible condition.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateOffline State = "offline"
	StateError   State = "error"
)

// Status is a point-in-time snapshot for callers and the UI layer.
type Status struct {
	State      State     `json:"state"`
	LastError  string    `json:"last_error,omitempty"`
	LastSyncAt time.Time `json:"last_sync_at"`
	Pending    int       `json:"pending"`
}

// Orchestrator drives full syncs between the local store and the remote
// mirror. It is the only component that retries: the mirror and backend
// attempt each call once, and the orchestrator's next trigger (timer tick,
// reconnect event, explicit request) starts again from scratch.
//
// An in-flight sync is never cancelled or queued behind; a sync request
// while syncing is dropped.
type Orchestrator struct {
	store  *LocalStore
	ledger *Ledger
	mirror *Mirror
	blobs  BlobStore
	logger *slog.Logger

	interval time.Duration
	timeout  time.Duration

	mu         sync.Mutex
	state      State
	inFlight   bool
	lastError  string
	lastSyncAt time.Time
}

// OrchestratorConfig carries the two timing knobs.
type OrchestratorConfig struct {
	// Interval between timer-driven full syncs.
	Interval time.Duration
	// Timeout applied to every individual remote call.
	Timeout time.Duration
}

// NewOrchestrator builds an orchestrator in the idle state. The last-sync
// timestamp is restored from the blob store so a restart does not forget the
// previous successful sync.
func NewOrchestrator(store *LocalStore, ledger *Ledger, mirror *Mirror, blobs BlobStore, cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	lastSync, err := LoadLastSync(blobs)
	if err != nil {
		logger.Warn("could not restore last-sync timestamp", slog.Any("error", err))
	}

	return &Orchestrator{
		store:      store,
		ledger:     ledger,
		mirror:     mirror,
		blobs:      blobs,
		logger:     logger,
		interval:   cfg.Interval,
		timeout:    cfg.Timeout,
		state:      StateIdle,
		lastSyncAt: lastSync,
	}
}

// Status returns a snapshot of the orchestrator's condition.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Status{
		State:      o.state,
		LastError:  o.lastError,
		LastSyncAt: o.lastSyncAt,
		Pending:    o.ledger.Len(),
	}
}

// Sync runs one full sync cycle and returns the resulting state. A request
// arriving while a sync is already running is dropped and returns
// StateSyncing.
func (o *Orchestrator) Sync(ctx context.Context) State {
	if !o.begin() {
		o.logger.Debug("sync already in progress, request dropped")

		return StateSyncing
	}

	return o.runSync(ctx)
}

// ProcessPending replays the ledger in insertion order, clearing each entry
// as its remote write is confirmed and leaving failed entries in place, then
// unconditionally runs a full sync. The online event calls this.
func (o *Orchestrator) ProcessPending(ctx context.Context) State {
	if !o.begin() {
		o.logger.Debug("sync already in progress, pending processing dropped")

		return StateSyncing
	}

	for _, change := range o.ledger.List() {
		if err := o.pushOne(ctx, change); err != nil {
			o.logger.Warn("pending change replay failed",
				slog.String("change_id", change.ID.String()),
				slog.String("kind", string(change.Kind)),
				slog.Any("error", err))

			continue
		}
		if err := o.ledger.Clear([]uuid.UUID{change.ID}); err != nil {
			o.logger.Error("could not clear confirmed ledger entry", slog.Any("error", err))
		}
	}

	return o.runSync(ctx)
}

// HandleOnline reacts to a connectivity-restored signal: pending changes are
// replayed, then a full sync runs.
func (o *Orchestrator) HandleOnline(ctx context.Context) State {
	o.logger.Info("connectivity restored, processing pending changes")

	return o.ProcessPending(ctx)
}

// HandleOffline forces the offline state regardless of the current one.
func (o *Orchestrator) HandleOffline() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateOffline
	o.logger.Info("connectivity lost, sync suspended")
}

// MarkNotificationRead flips the cached notification's read flag, persists
// the cache, then confirms the flip remotely best-effort. A remote failure
// is logged and the local flip stands; the next pull reconciles.
func (o *Orchestrator) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	flipped, err := o.store.MarkNotificationRead(id)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}

	o.confirmRead(ctx, id)

	return nil
}

// MarkAllNotificationsRead flips every unread cached notification, then
// confirms each flip remotely best-effort.
func (o *Orchestrator) MarkAllNotificationsRead(ctx context.Context) error {
	flipped, err := o.store.MarkAllNotificationsRead()
	if err != nil {
		return err
	}

	for _, id := range flipped {
		o.confirmRead(ctx, id)
	}

	return nil
}

func (o *Orchestrator) confirmRead(ctx context.Context, id uuid.UUID) {
	err := o.callErr(ctx, func(callCtx context.Context) error {
		return o.mirror.ConfirmNotificationRead(callCtx, id.String())
	})
	if err != nil {
		o.logger.Warn("notification read confirmation failed",
			slog.String("notification_id", id.String()),
			slog.Any("error", err))
	}
}

// Run drives timer-based syncing until ctx is cancelled. Each tick triggers
// a full sync unless one is already running.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Sync(ctx)
		}
	}
}

// begin transitions to syncing unless a cycle is already in flight. The
// in-flight flag is tracked separately from the visible state because an
// offline signal may overwrite the state mid-cycle; the flag is what
// serializes store and ledger access.
func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inFlight {
		return false
	}
	o.inFlight = true
	o.state = StateSyncing

	return true
}

func (o *Orchestrator) finish(state State, reason string) State {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.inFlight = false
	o.state = state
	o.lastError = reason

	return state
}

// runSync is the full-sync cycle: connectivity, auth, push, pull, clear.
// Push happens before pull and the ledger is cleared only after the pull, so
// a push failure leaves its entry in place even when the pull succeeds.
func (o *Orchestrator) runSync(ctx context.Context) State {
	if err := o.callErr(ctx, o.mirror.CheckConnectivity); err != nil {
		o.logger.Warn("connectivity check failed", slog.Any("error", err))

		return o.finish(StateOffline, err.Error())
	}

	authenticated, err := o.checkSession(ctx)
	if err != nil && !errors.Is(err, ErrNotAuthenticated) {
		o.logger.Error("session check failed", slog.Any("error", err))

		return o.finish(StateError, err.Error())
	}
	if !authenticated {
		o.logger.Debug("no authenticated session, nothing to sync")

		return o.finish(StateIdle, "")
	}

	var (
		confirmed []uuid.UUID
		firstErr  error
	)

	for _, change := range o.ledger.List() {
		if err := o.pushOne(ctx, change); err != nil {
			o.logger.Warn("push failed",
				slog.String("change_id", change.ID.String()),
				slog.String("kind", string(change.Kind)),
				slog.String("op", string(change.Op)),
				slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}

			continue
		}
		confirmed = append(confirmed, change.ID)
	}

	if err := o.pullAll(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	if err := o.ledger.Clear(confirmed); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr != nil {
		return o.finish(StateError, firstErr.Error())
	}

	now := time.Now().UTC()
	if err := SaveLastSync(o.blobs, now); err != nil {
		o.logger.Error("could not persist last-sync timestamp", slog.Any("error", err))
	}

	o.mu.Lock()
	o.lastSyncAt = now
	o.mu.Unlock()

	o.logger.Info("sync completed", slog.Time("at", now))

	return o.finish(StateIdle, "")
}

func (o *Orchestrator) pullAll(ctx context.Context) error {
	medications, err := callValue(ctx, o.timeout, o.mirror.PullMedications)
	if err != nil {
		return errors.WithMessage(err, "pull medications")
	}
	if err := o.store.SetMedications(medications); err != nil {
		return err
	}

	doses, err := callValue(ctx, o.timeout, o.mirror.PullDoseRecords)
	if err != nil {
		return errors.WithMessage(err, "pull dose records")
	}
	if err := o.store.SetDoseRecords(doses); err != nil {
		return err
	}

	notes, err := callValue(ctx, o.timeout, o.mirror.PullVoiceNotes)
	if err != nil {
		return errors.WithMessage(err, "pull voice notes")
	}
	if err := o.store.SetVoiceNotes(notes); err != nil {
		return err
	}

	notifications, err := callValue(ctx, o.timeout, o.mirror.PullNotifications)
	if err != nil {
		return errors.WithMessage(err, "pull notifications")
	}

	return o.store.SetNotifications(notifications)
}

func (o *Orchestrator) pushOne(ctx context.Context, change Change) error {
	return o.callErr(ctx, func(callCtx context.Context) error {
		return o.mirror.Push(callCtx, change)
	})
}

func (o *Orchestrator) checkSession(ctx context.Context) (bool, error) {
	return callValue(ctx, o.timeout, o.mirror.CheckSession)
}

// callErr runs one remote call under the per-call timeout.
func (o *Orchestrator) callErr(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return fn(callCtx)
}

func callValue[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fn(callCtx)
}
