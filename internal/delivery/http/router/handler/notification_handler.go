package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NotificationHandler holds dependencies for notification-related handlers.
type NotificationHandler struct {
	uc     usecase.NotificationUsecase
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(uc usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListNotifications returns the authenticated user's notifications, newest
// first. Supports the limit and unread_only query parameters.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	input := &usecase.ListNotificationsInput{}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return response.BadRequest(c, "INVALID_LIMIT", "limit must be a non-negative integer")
		}
		input.Limit = limit
	}
	input.UnreadOnly = c.QueryParam("unread_only") == "true"

	notifications, err := h.uc.ListNotifications(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notifications, "Notifications retrieved successfully")
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid notification id")
	}

	if err := h.uc.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Notification marked as read")
}

// MarkAllRead marks every unread notification of the user as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
	}

	updated, err := h.uc.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"updated": updated}, "Notifications marked as read")
}
