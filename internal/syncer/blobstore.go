// Package syncer implements the device-side sync engine: a local mirror of
// the user's data, a durable pending-change ledger, a remote mirror adapter
// and the orchestrator that drives full syncs between them.
package syncer

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Blob keys for everything the engine persists locally.
const (
	KeyLastSync      = "last-sync"
	KeyOnboarding    = "onboarding-completed"
	KeyLedger        = "pending-changes"
	KeyMedications   = "medications"
	KeyDoseRecords   = "dose-records"
	KeyNotifications = "notification-cache"
	KeyVoiceNotes    = "voice-note-cache"
)

// BlobStore persists opaque byte blobs under string keys. Implementations
// must tolerate missing keys; Get reports presence through its second
// return value.
type BlobStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// LoadLastSync reads the persisted last-sync timestamp. A missing key yields
// the zero time and no error.
func LoadLastSync(blobs BlobStore) (time.Time, error) {
	raw, ok, err := blobs.Get(KeyLastSync)
	if err != nil || !ok {
		return time.Time{}, err
	}

	unix, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse last-sync")
	}

	return time.Unix(unix, 0).UTC(), nil
}

// SaveLastSync persists the last-sync timestamp as a unix-seconds string.
func SaveLastSync(blobs BlobStore, at time.Time) error {
	return blobs.Set(KeyLastSync, []byte(strconv.FormatInt(at.Unix(), 10)))
}

// OnboardingCompleted reports whether the onboarding flag has been set.
func OnboardingCompleted(blobs BlobStore) (bool, error) {
	raw, ok, err := blobs.Get(KeyOnboarding)
	if err != nil || !ok {
		return false, err
	}

	var done bool
	if err := json.Unmarshal(raw, &done); err != nil {
		return false, errors.Wrap(err, "parse onboarding flag")
	}

	return done, nil
}

// MarkOnboardingCompleted sets the onboarding flag.
func MarkOnboardingCompleted(blobs BlobStore) error {
	return blobs.Set(KeyOnboarding, []byte("true"))
}
