// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"

	"medtrack/config"
	deliverycontext "medtrack/internal/delivery/context"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// planState tracks one user's tier and credit consumption. Credits reset when
// the tier changes; a real deployment would reset them on a billing cycle.
type planState struct {
	tier entity.PlanTier
	used int
}

// billingService implements the BillingUsecase interface with an in-memory,
// mutex-guarded store. Constructed and injected, never package-global.
type billingService struct {
	mu         sync.Mutex
	plans      map[uuid.UUID]*planState
	allowances map[entity.PlanTier]int
	logger     *slog.Logger
}

// BillingServiceParams holds dependencies for BillingService, injected by Fx.
type BillingServiceParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewBillingService is the constructor for billingService.
func NewBillingService(params BillingServiceParams) usecase.BillingUsecase {
	billing := params.Config.Billing

	return &billingService{
		plans: make(map[uuid.UUID]*planState),
		allowances: map[entity.PlanTier]int{
			entity.PlanFree:    billing.FreeSMSAllowance,
			entity.PlanFamily:  billing.FamilySMSAllowance,
			entity.PlanPremium: billing.PremiumSMSAllowance,
		},
		logger: params.Logger,
	}
}

func (srv *billingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetPlan returns the user's tier and credit usage. Unknown users are on the
// free tier with no credits consumed.
func (srv *billingService) GetPlan(_ context.Context, userID uuid.UUID) (*usecase.PlanStatus, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.statusLocked(userID), nil
}

// SetPlan switches the user's tier and resets credit consumption.
func (srv *billingService) SetPlan(ctx context.Context, userID uuid.UUID, tier entity.PlanTier) (*usecase.PlanStatus, error) {
	if _, ok := srv.allowances[tier]; !ok {
		return nil, domainerrors.ErrValidation.WrapMessage("unknown plan tier")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.plans[userID] = &planState{tier: tier}

	srv.log(ctx).Info("Plan changed",
		slog.Any("userID", userID),
		slog.String("tier", string(tier)),
	)

	return srv.statusLocked(userID), nil
}

// ConsumeSMSCredit spends one credit or fails when the allowance is used up.
func (srv *billingService) ConsumeSMSCredit(ctx context.Context, userID uuid.UUID) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	state := srv.stateLocked(userID)
	if state.used >= srv.allowances[state.tier] {
		srv.log(ctx).Warn("SMS credits exhausted",
			slog.Any("userID", userID),
			slog.String("tier", string(state.tier)),
		)

		return domainerrors.ErrSMSCreditsExhausted
	}

	state.used++

	return nil
}

func (srv *billingService) stateLocked(userID uuid.UUID) *planState {
	state, ok := srv.plans[userID]
	if !ok {
		state = &planState{tier: entity.PlanFree}
		srv.plans[userID] = state
	}

	return state
}

func (srv *billingService) statusLocked(userID uuid.UUID) *usecase.PlanStatus {
	state := srv.stateLocked(userID)
	total := srv.allowances[state.tier]

	return &usecase.PlanStatus{
		Tier:             state.tier,
		SMSCreditsUsed:   state.used,
		SMSCreditsTotal:  total,
		SMSCreditsRemain: total - state.used,
	}
}
