package handler

import (
	"log/slog"
	"net/http"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CaregiverHandler holds dependencies for caregiver-related handlers.
type CaregiverHandler struct {
	uc     usecase.CaregiverUsecase
	logger *slog.Logger
}

// NewCaregiverHandler is the constructor for CaregiverHandler, injected by Fx.
func NewCaregiverHandler(uc usecase.CaregiverUsecase, logger *slog.Logger) *CaregiverHandler {
	return &CaregiverHandler{
		uc:     uc,
		logger: logger,
	}
}

// CaregiverRequest represents the writable fields of a caregiver link.
type CaregiverRequest struct {
	Name               string `json:"name" validate:"required"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Relationship       string `json:"relationship,omitempty"`
	IsActive           bool   `json:"is_active"`
	CanViewMedications bool   `json:"can_view_medications"`
	CanViewDoses       bool   `json:"can_view_doses"`
	NotifyMissedDose   bool   `json:"notify_missed_dose"`
	NotifyLowStock     bool   `json:"notify_low_stock"`
	NotifyEmergency    bool   `json:"notify_emergency"`
}

func (r *CaregiverRequest) toInput() *usecase.CaregiverInput {
	return &usecase.CaregiverInput{
		Name:               r.Name,
		Phone:              r.Phone,
		Email:              r.Email,
		Relationship:       r.Relationship,
		IsActive:           r.IsActive,
		CanViewMedications: r.CanViewMedications,
		CanViewDoses:       r.CanViewDoses,
		NotifyMissedDose:   r.NotifyMissedDose,
		NotifyLowStock:     r.NotifyLowStock,
		NotifyEmergency:    r.NotifyEmergency,
	}
}

// CreateCaregiver links a caregiver to the authenticated patient.
func (h *CaregiverHandler) CreateCaregiver(c echo.Context) error {
	patientID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req CaregiverRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid caregiver input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	caregiver, err := h.uc.CreateCaregiver(c.Request().Context(), patientID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, caregiver, "Caregiver created successfully")
}

// UpdateCaregiver handles a full update of one caregiver link.
func (h *CaregiverHandler) UpdateCaregiver(c echo.Context) error {
	patientID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	caregiverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid caregiver id")
	}

	var req CaregiverRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid caregiver input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	caregiver, err := h.uc.UpdateCaregiver(c.Request().Context(), patientID, caregiverID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, caregiver, "Caregiver updated successfully")
}

// DeleteCaregiver removes a caregiver link.
func (h *CaregiverHandler) DeleteCaregiver(c echo.Context) error {
	patientID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	caregiverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid caregiver id")
	}

	if err := h.uc.DeleteCaregiver(c.Request().Context(), patientID, caregiverID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Caregiver deleted successfully")
}

// ListCaregivers returns the authenticated patient's caregivers.
func (h *CaregiverHandler) ListCaregivers(c echo.Context) error {
	patientID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	caregivers, err := h.uc.ListCaregivers(c.Request().Context(), patientID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, caregivers, "Caregivers retrieved successfully")
}

// AlertRequest carries a caregiver-initiated help alert.
type AlertRequest struct {
	Message string `json:"message,omitempty"`
}

// Alert raises a caregiver alert for the authenticated patient.
func (h *CaregiverHandler) Alert(c echo.Context) error {
	patientID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	caregiverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid caregiver id")
	}

	var req AlertRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid alert input")
	}

	output, err := h.uc.Alert(c.Request().Context(), patientID, caregiverID, &usecase.AlertInput{
		Message: req.Message,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Alert dispatched successfully")
}

// PatientView returns the permission-gated subset of a patient's data for
// the authenticated caregiver.
func (h *CaregiverHandler) PatientView(c echo.Context) error {
	callerID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid patient id")
	}

	view, err := h.uc.PatientView(c.Request().Context(), callerID, patientID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Patient view retrieved successfully")
}
