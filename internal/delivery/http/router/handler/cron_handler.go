package handler

import (
	"log/slog"
	"net/http"
	"time"

	"medtrack/internal/delivery/http/response"
	"medtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CronHandler exposes the scheduler-invoked check passes. Routes using it are
// guarded by the shared-secret cron middleware, not user authentication.
type CronHandler struct {
	uc     usecase.ScheduleUsecase
	logger *slog.Logger
}

// NewCronHandler is the constructor for CronHandler, injected by Fx.
func NewCronHandler(uc usecase.ScheduleUsecase, logger *slog.Logger) *CronHandler {
	return &CronHandler{
		uc:     uc,
		logger: logger,
	}
}

// MissedDoseCheck runs one missed-dose pass across all users.
func (h *CronHandler) MissedDoseCheck(c echo.Context) error {
	result, err := h.uc.RunMissedDoseCheck(c.Request().Context(), time.Now())
	if err != nil {
		return errors.WithStack(err)
	}

	h.logger.Info("missed dose check completed",
		slog.Int("checked", result.Checked),
		slog.Int("alerted", result.Alerted),
		slog.Duration("elapsed", result.Elapsed))

	return response.Success(c, http.StatusOK, result, "Missed dose check completed")
}

// ReminderCheck runs one upcoming-dose reminder pass across all users.
func (h *CronHandler) ReminderCheck(c echo.Context) error {
	result, err := h.uc.RunReminderCheck(c.Request().Context(), time.Now())
	if err != nil {
		return errors.WithStack(err)
	}

	h.logger.Info("reminder check completed",
		slog.Int("checked", result.Checked),
		slog.Int("alerted", result.Alerted),
		slog.Duration("elapsed", result.Elapsed))

	return response.Success(c, http.StatusOK, result, "Reminder check completed")
}
