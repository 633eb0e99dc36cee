package handler

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxLabelImageBytes caps label photo uploads.
const maxLabelImageBytes = 8 << 20

// MedicationHandler holds dependencies for medication-related handlers.
type MedicationHandler struct {
	uc     usecase.MedicationUsecase
	logger *slog.Logger
}

// NewMedicationHandler is the constructor for MedicationHandler, injected by Fx.
func NewMedicationHandler(uc usecase.MedicationUsecase, logger *slog.Logger) *MedicationHandler {
	return &MedicationHandler{
		uc:     uc,
		logger: logger,
	}
}

// MedicationRequest represents the writable fields of a medication.
type MedicationRequest struct {
	Name              string   `json:"name" validate:"required"`
	GenericName       string   `json:"generic_name,omitempty"`
	DoseAmount        float64  `json:"dose_amount" validate:"gt=0"`
	DoseUnit          string   `json:"dose_unit" validate:"required"`
	FrequencyType     string   `json:"frequency_type" validate:"required"`
	FrequencyValue    int      `json:"frequency_value"`
	Schedules         []string `json:"schedules" validate:"required,min=1"`
	Instructions      []string `json:"instructions,omitempty"`
	Status            string   `json:"status,omitempty"`
	Stock             *int     `json:"stock,omitempty"`
	StockUnit         string   `json:"stock_unit,omitempty"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
	IsCritical        bool     `json:"is_critical"`
	AlertDelayMinutes int      `json:"alert_delay_minutes,omitempty"`
}

func (r *MedicationRequest) toInput() *usecase.MedicationInput {
	return &usecase.MedicationInput{
		Name:              r.Name,
		GenericName:       r.GenericName,
		DoseAmount:        r.DoseAmount,
		DoseUnit:          r.DoseUnit,
		FrequencyType:     r.FrequencyType,
		FrequencyValue:    r.FrequencyValue,
		Schedules:         r.Schedules,
		Instructions:      r.Instructions,
		Status:            r.Status,
		Stock:             r.Stock,
		StockUnit:         r.StockUnit,
		LowStockThreshold: r.LowStockThreshold,
		IsCritical:        r.IsCritical,
		AlertDelayMinutes: r.AlertDelayMinutes,
	}
}

// CreateMedication handles creating a medication for the authenticated user.
func (h *MedicationHandler) CreateMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req MedicationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid medication input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	medication, err := h.uc.CreateMedication(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, medication, "Medication created successfully")
}

// UpdateMedication handles a full update of one medication.
func (h *MedicationHandler) UpdateMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid medication id")
	}

	var req MedicationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid medication input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	medication, err := h.uc.UpdateMedication(c.Request().Context(), userID, medicationID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, medication, "Medication updated successfully")
}

// DeleteMedication removes a medication and its dose history.
func (h *MedicationHandler) DeleteMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid medication id")
	}

	if err := h.uc.DeleteMedication(c.Request().Context(), userID, medicationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Medication deleted successfully")
}

// GetMedication returns one medication owned by the authenticated user.
func (h *MedicationHandler) GetMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid medication id")
	}

	medication, err := h.uc.GetMedication(c.Request().Context(), userID, medicationID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, medication, "Medication retrieved successfully")
}

// ListMedications returns every medication of the authenticated user.
func (h *MedicationHandler) ListMedications(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	medications, err := h.uc.ListMedications(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, medications, "Medications retrieved successfully")
}

// ScanLabelRequest carries a base64-encoded label photo as a JSON alternative
// to the multipart upload.
type ScanLabelRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// ScanLabel extracts a medication draft from a label photo. Accepts either a
// multipart upload under the "image" field or a JSON body with the image
// base64-encoded.
func (h *MedicationHandler) ScanLabel(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	imageJPEG, err := h.readLabelImage(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_IMAGE", err.Error())
	}

	draft, err := h.uc.ScanLabel(c.Request().Context(), userID, imageJPEG)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, draft, "Label scanned successfully")
}

func (h *MedicationHandler) readLabelImage(c echo.Context) ([]byte, error) {
	if fileHeader, err := c.FormFile("image"); err == nil {
		if fileHeader.Size > maxLabelImageBytes {
			return nil, errors.New("image exceeds the upload size limit")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, errors.Wrap(err, "open uploaded image")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxLabelImageBytes+1))
		if err != nil {
			return nil, errors.Wrap(err, "read uploaded image")
		}
		if len(data) > maxLabelImageBytes {
			return nil, errors.New("image exceeds the upload size limit")
		}

		return data, nil
	}

	var req ScanLabelRequest
	if err := c.Bind(&req); err != nil || req.ImageBase64 == "" {
		return nil, errors.New("expected an image upload or image_base64 field")
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return nil, errors.Wrap(err, "decode image_base64")
	}
	if len(data) > maxLabelImageBytes {
		return nil, errors.New("image exceeds the upload size limit")
	}

	return data, nil
}
