package service

import "context"

// PushService defines the interface for push notification delivery to a
// registered device token. Optional: a nil PushService disables push.
type PushService interface {
	// SendPush sends one push notification to a single device token.
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}
