package handler

import (
	"log/slog"
	"net/http"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/syncer"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SyncHandler serves the device agents' mirror endpoints. Pulls return whole
// collections in the flattened wire row shape; pushes accept single
// device-authored rows.
type SyncHandler struct {
	uc     usecase.SyncUsecase
	logger *slog.Logger
}

// NewSyncHandler is the constructor for SyncHandler, injected by Fx.
func NewSyncHandler(uc usecase.SyncUsecase, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		uc:     uc,
		logger: logger,
	}
}

// PullMedications returns the user's medications as wire rows.
func (h *SyncHandler) PullMedications(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	meds, err := h.uc.PullMedications(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	rows := make([]syncer.MedicationRow, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, syncer.MedicationToRow(*m))
	}

	return c.JSON(http.StatusOK, rows)
}

// UpsertMedication stores one device-authored medication row.
func (h *SyncHandler) UpsertMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var row syncer.MedicationRow
	if err := c.Bind(&row); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid medication row")
	}
	row.ID = c.Param("id")

	med, err := syncer.MedicationFromRow(row)
	if err != nil {
		return response.BadRequest(c, "INVALID_ROW", err.Error())
	}

	if err := h.uc.UpsertMedication(c.Request().Context(), userID, &med); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Medication synced")
}

// DeleteMedication removes the parent medication row only.
func (h *SyncHandler) DeleteMedication(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Medication deleted")
}

// DeleteDosesByMedication removes a medication's dose rows. Devices call this
// before deleting the parent medication.
func (h *SyncHandler) DeleteDosesByMedication(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid medication id")
	}

	if err := h.uc.DeleteDosesByMedication(c.Request().Context(), userID, medicationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dose records deleted")
}

// PullDoses returns the user's dose records as wire rows.
func (h *SyncHandler) PullDoses(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	records, err := h.uc.PullDoses(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	rows := make([]syncer.DoseRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, syncer.DoseToRow(*r))
	}

	return c.JSON(http.StatusOK, rows)
}

// UpsertDose stores one device-authored dose row.
func (h *SyncHandler) UpsertDose(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var row syncer.DoseRow
	if err := c.Bind(&row); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid dose row")
	}
	row.ID = c.Param("id")

	record, err := syncer.DoseFromRow(row)
	if err != nil {
		return response.BadRequest(c, "INVALID_ROW", err.Error())
	}

	if err := h.uc.UpsertDose(c.Request().Context(), userID, &record); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dose synced")
}

// DeleteDose removes one dose row.
func (h *SyncHandler) DeleteDose(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Dose deleted")
}

// PullVoiceNotes returns the user's voice notes as wire rows.
func (h *SyncHandler) PullVoiceNotes(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	notes, err := h.uc.PullVoiceNotes(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	rows := make([]syncer.VoiceNoteRow, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, syncer.VoiceNoteToRow(*n))
	}

	return c.JSON(http.StatusOK, rows)
}

// UpsertVoiceNote stores one device-authored voice note row.
func (h *SyncHandler) UpsertVoiceNote(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	var row syncer.VoiceNoteRow
	if err := c.Bind(&row); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid voice note row")
	}
	row.ID = c.Param("id")

	note, err := syncer.VoiceNoteFromRow(row)
	if err != nil {
		return response.BadRequest(c, "INVALID_ROW", err.Error())
	}

	if err := h.uc.UpsertVoiceNote(c.Request().Context(), userID, &note); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Voice note synced")
}

// DeleteVoiceNote removes one voice note row.
func (h *SyncHandler) DeleteVoiceNote(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Voice note deleted")
}

// PullNotifications returns the user's notifications as wire rows. Devices
// never author notifications; this collection is pull-only.
func (h *SyncHandler) PullNotifications(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	notifications, err := h.uc.PullNotifications(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	rows := make([]syncer.NotificationRow, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, syncer.NotificationToRow(*n))
	}

	return c.JSON(http.StatusOK, rows)
}
