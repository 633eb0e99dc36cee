package usecase

import (
	"context"

	"medtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// PlanStatus reports a user's subscription tier and remaining SMS credits.
type PlanStatus struct {
	Tier             entity.PlanTier `json:"tier"`
	SMSCreditsUsed   int             `json:"sms_credits_used"`
	SMSCreditsTotal  int             `json:"sms_credits_total"`
	SMSCreditsRemain int             `json:"sms_credits_remaining"`
}

// BillingUsecase defines the subscription-tier bookkeeping. Purely business
// rules over an injected store; no payment processing.
type BillingUsecase interface {
	GetPlan(ctx context.Context, userID uuid.UUID) (*PlanStatus, error)
	SetPlan(ctx context.Context, userID uuid.UUID, tier entity.PlanTier) (*PlanStatus, error)

	// ConsumeSMSCredit atomically spends one credit, or returns
	// ErrSMSCreditsExhausted when the monthly allowance is used up.
	ConsumeSMSCredit(ctx context.Context, userID uuid.UUID) error
}
