package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"medtrack/config"
	"medtrack/internal/domain/entity"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBillingService(t *testing.T) usecase.BillingUsecase {
	t.Helper()

	return NewBillingService(BillingServiceParams{
		Config: &config.Config{
			Billing: &config.BillingConfig{
				FreeSMSAllowance:    2,
				FamilySMSAllowance:  100,
				PremiumSMSAllowance: 500,
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestGetPlan_UnknownUserDefaultsToFree(t *testing.T) {
	svc := newTestBillingService(t)

	status, err := svc.GetPlan(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, entity.PlanFree, status.Tier)
	assert.Equal(t, 0, status.SMSCreditsUsed)
	assert.Equal(t, 2, status.SMSCreditsTotal)
	assert.Equal(t, 2, status.SMSCreditsRemain)
}

func TestSetPlan_SwitchesTierAndResetsCredits(t *testing.T) {
	svc := newTestBillingService(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.ConsumeSMSCredit(ctx, userID))

	status, err := svc.SetPlan(ctx, userID, entity.PlanFamily)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanFamily, status.Tier)
	assert.Equal(t, 0, status.SMSCreditsUsed)
	assert.Equal(t, 100, status.SMSCreditsRemain)
}

func TestSetPlan_UnknownTierRejected(t *testing.T) {
	svc := newTestBillingService(t)

	_, err := svc.SetPlan(context.Background(), uuid.New(), entity.PlanTier("gold"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestConsumeSMSCredit_ExhaustsAllowance(t *testing.T) {
	svc := newTestBillingService(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.ConsumeSMSCredit(ctx, userID))
	require.NoError(t, svc.ConsumeSMSCredit(ctx, userID))

	err := svc.ConsumeSMSCredit(ctx, userID)
	assert.ErrorIs(t, err, domainerrors.ErrSMSCreditsExhausted)

	// Other users keep their own allowance.
	assert.NoError(t, svc.ConsumeSMSCredit(ctx, uuid.New()))
}
