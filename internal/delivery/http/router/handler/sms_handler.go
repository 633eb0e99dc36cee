package handler

import (
	"log/slog"
	"net/http"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SMSHandler holds dependencies for outbound SMS handlers.
type SMSHandler struct {
	uc     usecase.SMSUsecase
	logger *slog.Logger
}

// NewSMSHandler is the constructor for SMSHandler, injected by Fx.
func NewSMSHandler(uc usecase.SMSUsecase, logger *slog.Logger) *SMSHandler {
	return &SMSHandler{
		uc:     uc,
		logger: logger,
	}
}

// SendSMSRequest represents one outbound text message.
type SendSMSRequest struct {
	To       string `json:"to" validate:"required"`
	Body     string `json:"body" validate:"required,max=1600"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=normal high"`
}

// SendSMS validates and dispatches one text message on the authenticated
// user's SMS credit balance.
func (h *SMSHandler) SendSMS(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req SendSMSRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid SMS input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.uc.SendSMS(c.Request().Context(), userID, &usecase.SendSMSInput{
		To:       req.To,
		Body:     req.Body,
		Priority: req.Priority,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "SMS dispatched successfully")
}
