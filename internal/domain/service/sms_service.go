package service

import "context"

// SMSPriority tags an outbound message for the provider.
type SMSPriority string

const (
	SMSPriorityNormal   SMSPriority = "normal"
	SMSPriorityUrgent   SMSPriority = "urgent"
	SMSPriorityCritical SMSPriority = "critical"
)

// SMSService defines the interface for outbound SMS delivery. Implementations
// return the provider message ID, or a simulated ID when no provider is
// configured.
type SMSService interface {
	Send(ctx context.Context, to, body string, priority SMSPriority) (messageID string, err error)
}
