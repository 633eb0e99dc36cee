// Package sms delivers outbound text messages through an HTTP provider. When
// no provider is configured the service simulates delivery and only logs, so
// development environments never send real texts.
package sms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medtrack/config"
	"medtrack/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const requestTimeout = 10 * time.Second

// Params holds dependencies for the SMS service, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates an SMSService. A fully configured provider yields the HTTP
// implementation; anything less falls back to simulated delivery.
func New(params Params) service.SMSService {
	cfg := params.Config.SMS
	if !cfg.Configured() {
		params.Logger.Info("SMS provider not configured, using simulated delivery")

		return &simulatedService{logger: params.Logger}
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(requestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &httpService{
		client:     client,
		fromNumber: cfg.FromNumber,
		logger:     params.Logger,
	}
}

// httpService sends messages through the configured HTTP provider.
type httpService struct {
	client     *resty.Client
	fromNumber string
	logger     *slog.Logger
}

type sendRequest struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

func (s *httpService) Send(ctx context.Context, to, body string, priority service.SMSPriority) (string, error) {
	var result sendResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(sendRequest{
			To:       to,
			From:     s.fromNumber,
			Body:     body,
			Priority: string(priority),
		}).
		SetResult(&result).
		Post("/messages")
	if err != nil {
		return "", errors.Wrap(err, "sms provider request failed")
	}

	if resp.IsError() {
		return "", errors.Errorf("sms provider returned status %d: %s", resp.StatusCode(), result.Error)
	}

	s.logger.Info("SMS dispatched",
		slog.String("message_id", result.MessageID),
		slog.String("priority", string(priority)),
	)

	return result.MessageID, nil
}

// simulatedService logs the message instead of sending it.
type simulatedService struct {
	logger *slog.Logger
}

func (s *simulatedService) Send(_ context.Context, to, body string, priority service.SMSPriority) (string, error) {
	messageID := fmt.Sprintf("sim-%s", uuid.NewString())

	s.logger.Info("[SimulatedSMS] Message dispatched",
		slog.String("message_id", messageID),
		slog.String("to", to),
		slog.String("priority", string(priority)),
		slog.Int("body_length", len(body)),
	)

	return messageID, nil
}
