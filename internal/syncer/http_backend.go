package syncer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// HTTPBackend talks to the medtrack server's sync endpoints. Each call runs
// under the configured request timeout and is attempted exactly once; retry
// is the orchestrator's job.
type HTTPBackend struct {
	client *resty.Client

	email    string
	password string
	token    string
}

// NewHTTPBackend builds a backend for the given server. Login happens lazily
// on the first session check.
func NewHTTPBackend(serverURL, email, password string, timeout time.Duration) *HTTPBackend {
	client := resty.New().
		SetBaseURL(serverURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPBackend{client: client, email: email, password: password}
}

// CheckConnectivity probes the unauthenticated health endpoint.
func (b *HTTPBackend) CheckConnectivity(ctx context.Context) error {
	resp, err := b.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return errors.Wrap(err, "health check")
	}
	if resp.IsError() {
		return errors.Errorf("health check: status %d", resp.StatusCode())
	}

	return nil
}

// CheckSession verifies the bearer token against the session endpoint,
// logging in first when no token is held. An expired or rejected session is
// reported as false, not as an error.
func (b *HTTPBackend) CheckSession(ctx context.Context) (bool, error) {
	if b.token == "" {
		if err := b.login(ctx); err != nil {
			return false, err
		}
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		Get("/auth/session")
	if err != nil {
		return false, errors.Wrap(err, "session check")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		// Token expired; one fresh login attempt, then report the result.
		if err := b.login(ctx); err != nil {
			return false, err
		}

		retry, err := b.client.R().
			SetContext(ctx).
			SetAuthToken(b.token).
			Get("/auth/session")
		if err != nil {
			return false, errors.Wrap(err, "session check")
		}

		return retry.IsSuccess(), nil
	}
	if resp.IsError() {
		return false, errors.Errorf("session check: status %d", resp.StatusCode())
	}

	return true, nil
}

func (b *HTTPBackend) login(ctx context.Context) error {
	// The server wraps payloads in a response envelope.
	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": b.email, "password": b.password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return errors.Wrap(err, "login")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if resp.IsError() {
		return errors.Errorf("login: status %d", resp.StatusCode())
	}

	b.token = out.Data.AccessToken

	return nil
}

// ListMedications pulls the medication rows, newest first.
func (b *HTTPBackend) ListMedications(ctx context.Context) ([]MedicationRow, error) {
	var rows []MedicationRow
	if err := b.list(ctx, "/api/sync/medications", &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// UpsertMedication pushes one medication row.
func (b *HTTPBackend) UpsertMedication(ctx context.Context, row MedicationRow) error {
	return b.put(ctx, "/api/sync/medications/"+row.ID, row)
}

// DeleteMedication removes one medication row.
func (b *HTTPBackend) DeleteMedication(ctx context.Context, id string) error {
	return b.delete(ctx, "/api/sync/medications/"+id)
}

// DeleteDosesByMedication removes the dose rows referencing a medication.
func (b *HTTPBackend) DeleteDosesByMedication(ctx context.Context, medicationID string) error {
	return b.delete(ctx, "/api/sync/medications/"+medicationID+"/doses")
}

// ListDoses pulls the dose rows, newest first.
func (b *HTTPBackend) ListDoses(ctx context.Context) ([]DoseRow, error) {
	var rows []DoseRow
	if err := b.list(ctx, "/api/sync/doses", &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// UpsertDose pushes one dose row.
func (b *HTTPBackend) UpsertDose(ctx context.Context, row DoseRow) error {
	return b.put(ctx, "/api/sync/doses/"+row.ID, row)
}

// DeleteDose removes one dose row.
func (b *HTTPBackend) DeleteDose(ctx context.Context, id string) error {
	return b.delete(ctx, "/api/sync/doses/"+id)
}

// ListVoiceNotes pulls the voice-note rows, newest first.
func (b *HTTPBackend) ListVoiceNotes(ctx context.Context) ([]VoiceNoteRow, error) {
	var rows []VoiceNoteRow
	if err := b.list(ctx, "/api/sync/voice-notes", &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// UpsertVoiceNote pushes one voice-note row.
func (b *HTTPBackend) UpsertVoiceNote(ctx context.Context, row VoiceNoteRow) error {
	return b.put(ctx, "/api/sync/voice-notes/"+row.ID, row)
}

// DeleteVoiceNote removes one voice-note row.
func (b *HTTPBackend) DeleteVoiceNote(ctx context.Context, id string) error {
	return b.delete(ctx, "/api/sync/voice-notes/"+id)
}

// ListNotifications pulls the notification rows, newest first.
func (b *HTTPBackend) ListNotifications(ctx context.Context) ([]NotificationRow, error) {
	var rows []NotificationRow
	if err := b.list(ctx, "/api/sync/notifications", &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// MarkNotificationRead confirms a read-flag flip.
func (b *HTTPBackend) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		Post(fmt.Sprintf("/api/notifications/%s/read", id))
	if err != nil {
		return errors.Wrap(err, "mark notification read")
	}

	return b.checkStatus(resp)
}

func (b *HTTPBackend) list(ctx context.Context, path string, into any) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		SetResult(into).
		Get(path)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}

	return b.checkStatus(resp)
}

func (b *HTTPBackend) put(ctx context.Context, path string, body any) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		SetBody(body).
		Put(path)
	if err != nil {
		return errors.Wrapf(err, "PUT %s", path)
	}

	return b.checkStatus(resp)
}

func (b *HTTPBackend) delete(ctx context.Context, path string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		Delete(path)
	if err != nil {
		return errors.Wrapf(err, "DELETE %s", path)
	}

	return b.checkStatus(resp)
}

func (b *HTTPBackend) checkStatus(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if resp.IsError() {
		return errors.Errorf("%s %s: status %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	}

	return nil
}
