package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"medtrack/config"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/service"
	mockSvc "medtrack/internal/mocks/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSMSService(t *testing.T, sender service.SMSService, freeAllowance int) usecase.SMSUsecase {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	billing := NewBillingService(BillingServiceParams{
		Config: &config.Config{
			Billing: &config.BillingConfig{
				FreeSMSAllowance:    freeAllowance,
				FamilySMSAllowance:  100,
				PremiumSMSAllowance: 500,
			},
		},
		Logger: logger,
	})

	return NewSMSService(SMSServiceParams{
		Sender:  sender,
		Billing: billing,
		Logger:  logger,
	})
}

func TestSendSMS_DispatchesWithDefaultPriority(t *testing.T) {
	sender := mockSvc.NewMockSMSService(t)
	svc := newTestSMSService(t, sender, 10)

	ctx := context.Background()
	userID := uuid.New()

	sender.On("Send", ctx, "+886912345678", "time for your medication", service.SMSPriorityNormal).
		Return("msg-1", nil)

	out, err := svc.SendSMS(ctx, userID, &usecase.SendSMSInput{
		To:   "+886912345678",
		Body: "time for your medication",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", out.MessageID)
}

func TestSendSMS_InvalidDestinationNeverReachesProvider(t *testing.T) {
	// No expectations on the sender: any call fails the test.
	sender := mockSvc.NewMockSMSService(t)
	svc := newTestSMSService(t, sender, 10)

	ctx := context.Background()
	userID := uuid.New()

	for _, to := range []string{"", "0912345678", "+0912", "not-a-number", "+886 912"} {
		_, err := svc.SendSMS(ctx, userID, &usecase.SendSMSInput{To: to, Body: "hello"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidPhoneNumber, "destination %q", to)
	}
}

func TestSendSMS_EmptyBodyRejected(t *testing.T) {
	sender := mockSvc.NewMockSMSService(t)
	svc := newTestSMSService(t, sender, 10)

	_, err := svc.SendSMS(context.Background(), uuid.New(), &usecase.SendSMSInput{
		To: "+886912345678",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestSendSMS_UnknownPriorityRejected(t *testing.T) {
	sender := mockSvc.NewMockSMSService(t)
	svc := newTestSMSService(t, sender, 10)

	_, err := svc.SendSMS(context.Background(), uuid.New(), &usecase.SendSMSInput{
		To:       "+886912345678",
		Body:     "hello",
		Priority: "shouting",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestSendSMS_ExhaustedCreditsStopDispatch(t *testing.T) {
	sender := mockSvc.NewMockSMSService(t)
	svc := newTestSMSService(t, sender, 1)

	ctx := context.Background()
	userID := uuid.New()

	sender.On("Send", ctx, "+886912345678", "first", service.SMSPriorityNormal).
		Return("msg-1", nil).Once()

	_, err := svc.SendSMS(ctx, userID, &usecase.SendSMSInput{To: "+886912345678", Body: "first"})
	require.NoError(t, err)

	// The allowance is spent; the provider must not see the second message.
	_, err = svc.SendSMS(ctx, userID, &usecase.SendSMSInput{To: "+886912345678", Body: "second"})
	assert.ErrorIs(t, err, domainerrors.ErrSMSCreditsExhausted)
}
