package handler

import (
	"log/slog"
	"net/http"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/domain/entity"
	"medtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BillingHandler holds dependencies for subscription plan handlers.
type BillingHandler struct {
	uc     usecase.BillingUsecase
	logger *slog.Logger
}

// NewBillingHandler is the constructor for BillingHandler, injected by Fx.
func NewBillingHandler(uc usecase.BillingUsecase, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetPlan returns the authenticated user's plan tier and SMS credit balance.
func (h *BillingHandler) GetPlan(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	status, err := h.uc.GetPlan(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "Plan retrieved successfully")
}

// SetPlanRequest represents the request body for a tier change.
type SetPlanRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free family premium"`
}

// SetPlan changes the authenticated user's subscription tier.
func (h *BillingHandler) SetPlan(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req SetPlanRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid plan input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	status, err := h.uc.SetPlan(c.Request().Context(), userID, entity.PlanTier(req.Tier))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "Plan updated successfully")
}
