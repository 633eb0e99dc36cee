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

// VoiceNoteHandler holds dependencies for voice note handlers.
type VoiceNoteHandler struct {
	uc     usecase.VoiceNoteUsecase
	logger *slog.Logger
}

// NewVoiceNoteHandler is the constructor for VoiceNoteHandler, injected by Fx.
func NewVoiceNoteHandler(uc usecase.VoiceNoteUsecase, logger *slog.Logger) *VoiceNoteHandler {
	return &VoiceNoteHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateVoiceNoteRequest represents the request body for attaching a voice note.
type CreateVoiceNoteRequest struct {
	MedicationID    *uuid.UUID `json:"medication_id,omitempty"`
	Date            string     `json:"date" validate:"required,datetime=2006-01-02"`
	DurationSeconds int        `json:"duration_seconds" validate:"gt=0"`
	Transcript      string     `json:"transcript,omitempty"`
	AudioURL        string     `json:"audio_url,omitempty"`
}

// CreateVoiceNote attaches a voice note to a day, optionally scoped to one
// medication.
func (h *VoiceNoteHandler) CreateVoiceNote(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var req CreateVoiceNoteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid voice note input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	note, err := h.uc.CreateVoiceNote(c.Request().Context(), userID, &usecase.CreateVoiceNoteInput{
		MedicationID:    req.MedicationID,
		Date:            req.Date,
		DurationSeconds: req.DurationSeconds,
		Transcript:      req.Transcript,
		AudioURL:        req.AudioURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, note, "Voice note created successfully")
}

// DeleteVoiceNote removes one voice note.
func (h *VoiceNoteHandler) DeleteVoiceNote(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid voice note id")
	}

	if err := h.uc.DeleteVoiceNote(c.Request().Context(), userID, noteID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Voice note deleted successfully")
}

// ListVoiceNotes returns the user's voice notes, optionally narrowed by the
// from/to date range and the medication_id query parameters.
func (h *VoiceNoteHandler) ListVoiceNotes(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	input := &usecase.ListVoiceNotesInput{
		FromDate: c.QueryParam("from"),
		ToDate:   c.QueryParam("to"),
	}
	if raw := c.QueryParam("medication_id"); raw != "" {
		medicationID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "Invalid medication id")
		}
		input.MedicationID = &medicationID
	}

	notes, err := h.uc.ListVoiceNotes(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notes, "Voice notes retrieved successfully")
}
