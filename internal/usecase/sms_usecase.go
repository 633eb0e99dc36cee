package usecase

import (
	"context"

	"github.com/google/uuid"
)

// SendSMSInput defines one outbound text message.
type SendSMSInput struct {
	To       string
	Body     string
	Priority string
}

// SendSMSOutput returns the provider (or simulated) message ID.
type SendSMSOutput struct {
	MessageID string
}

// SMSUsecase defines the interface for outbound SMS dispatch. Dispatch
// validates the destination, consumes one of the sender's SMS credits, then
// hands the message to the provider.
type SMSUsecase interface {
	SendSMS(ctx context.Context, userID uuid.UUID, input *SendSMSInput) (*SendSMSOutput, error)
}
