package impl

import (
	"context"
	"log/slog"
	"regexp"

	deliverycontext "medtrack/internal/delivery/context"
	domainerrors "medtrack/internal/domain/errors"
	"medtrack/internal/domain/service"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// phonePattern is the international destination shape: "+" then a country
// code digit 1-9 then up to 14 further digits.
var phonePattern = regexp.MustCompile(`^\+[1-9]\d{0,14}$`)

// smsService implements the SMSUsecase interface.
type smsService struct {
	sender  service.SMSService
	billing usecase.BillingUsecase
	logger  *slog.Logger
}

// SMSServiceParams holds dependencies for SMSService, injected by Fx.
type SMSServiceParams struct {
	fx.In

	Sender  service.SMSService
	Billing usecase.BillingUsecase
	Logger  *slog.Logger
}

// NewSMSService is the constructor for smsService.
func NewSMSService(params SMSServiceParams) usecase.SMSUsecase {
	return &smsService{
		sender:  params.Sender,
		billing: params.Billing,
		logger:  params.Logger,
	}
}

func (srv *smsService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SendSMS validates the destination, spends a credit, then dispatches.
// Validation failures never reach the provider.
func (srv *smsService) SendSMS(ctx context.Context, userID uuid.UUID, input *usecase.SendSMSInput) (*usecase.SendSMSOutput, error) {
	if !phonePattern.MatchString(input.To) {
		srv.log(ctx).Warn("Rejected SMS destination", slog.Any("userID", userID))

		return nil, domainerrors.ErrInvalidPhoneNumber
	}
	if input.Body == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("message body is required")
	}

	priority := service.SMSPriority(input.Priority)
	switch priority {
	case service.SMSPriorityNormal, service.SMSPriorityUrgent, service.SMSPriorityCritical:
	case "":
		priority = service.SMSPriorityNormal
	default:
		return nil, domainerrors.ErrValidation.WrapMessage("unknown sms priority")
	}

	if err := srv.billing.ConsumeSMSCredit(ctx, userID); err != nil {
		return nil, err
	}

	messageID, err := srv.sender.Send(ctx, input.To, input.Body, priority)
	if err != nil {
		srv.log(ctx).Error("SMS dispatch failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to dispatch sms")
	}

	srv.log(ctx).Info("SMS sent",
		slog.Any("userID", userID),
		slog.String("messageID", messageID),
		slog.String("priority", string(priority)),
	)

	return &usecase.SendSMSOutput{MessageID: messageID}, nil
}
