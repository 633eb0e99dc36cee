package usecase

import (
	"context"
	"time"
)

// CheckResult summarizes one scheduled check pass for the invoking scheduler.
type CheckResult struct {
	Checked int           `json:"checked"`
	Alerted int           `json:"alerted"`
	Elapsed time.Duration `json:"elapsed"`
	Errors  []string      `json:"errors,omitempty"`
}

// ScheduleUsecase defines the scheduler-invoked check passes. Both run across
// all users' active medications; "now" is injected so tests control the clock.
type ScheduleUsecase interface {
	// RunMissedDoseCheck finds scheduled intakes whose alert window elapsed
	// with no taken or skipped record for today, creates missed-dose
	// notifications, texts opted-in caregivers of critical medications, and
	// raises low-stock notifications along the way.
	RunMissedDoseCheck(ctx context.Context, now time.Time) (*CheckResult, error)

	// RunReminderCheck finds scheduled intakes coming up within the reminder
	// lead window that have no record yet and creates reminder notifications.
	RunReminderCheck(ctx context.Context, now time.Time) (*CheckResult, error)
}
