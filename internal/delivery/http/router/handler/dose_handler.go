package handler

import (
	"log/slog"
	"net/http"
	"time"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DoseHandler holds dependencies for dose-record handlers.
type DoseHandler struct {
	uc     usecase.DoseUsecase
	logger *slog.Logger
}

// NewDoseHandler is the constructor for DoseHandler, injected by Fx.
func NewDoseHandler(uc usecase.DoseUsecase, logger *slog.Logger) *DoseHandler {
	return &DoseHandler{
		uc:     uc,
		logger: logger,
	}
}

// LogDoseRequest represents one dose status transition.
type LogDoseRequest struct {
	MedicationID  uuid.UUID  `json:"medication_id" validate:"required"`
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string     `json:"scheduled_time" validate:"required"`
	Status        string     `json:"status" validate:"required"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
}

// LogDose upserts the record for one scheduled intake.
func (h *DoseHandler) LogDose(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req LogDoseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid dose input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	record, err := h.uc.LogDose(c.Request().Context(), userID, &usecase.LogDoseInput{
		MedicationID:  req.MedicationID,
		Date:          req.Date,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
		TakenAt:       req.TakenAt,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, record, "Dose logged successfully")
}

// DeleteDose removes one dose record.
func (h *DoseHandler) DeleteDose(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	doseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid dose id")
	}

	if err := h.uc.DeleteDose(c.Request().Context(), userID, doseID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dose deleted successfully")
}

// ListDoses returns the authenticated user's dose records, optionally
// narrowed by the from/to query parameters (inclusive, "2006-01-02").
func (h *DoseHandler) ListDoses(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	records, err := h.uc.ListDoses(c.Request().Context(), userID, &usecase.ListDosesInput{
		FromDate: c.QueryParam("from"),
		ToDate:   c.QueryParam("to"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records, "Doses retrieved successfully")
}
