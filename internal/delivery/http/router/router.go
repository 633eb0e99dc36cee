// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	MedicationHandler   *handler.MedicationHandler
	DoseHandler         *handler.DoseHandler
	CaregiverHandler    *handler.CaregiverHandler
	NotificationHandler *handler.NotificationHandler
	VoiceNoteHandler    *handler.VoiceNoteHandler
	SMSHandler          *handler.SMSHandler
	BillingHandler      *handler.BillingHandler
	SyncHandler         *handler.SyncHandler
	CronHandler         *handler.CronHandler
	AuthMiddleware      *middleware.AuthMiddleware
	CronMiddleware      *middleware.CronMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint, also used as the agents' connectivity probe.
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", p.UserHandler.RegisterUser)
		authGroup.POST("/login", p.UserHandler.Login)
		authGroup.POST("/refresh", p.UserHandler.RefreshToken)
		authGroup.GET("/session", p.UserHandler.CheckSession, p.AuthMiddleware.Authenticate)
		authGroup.POST("/logout", p.UserHandler.Logout, p.AuthMiddleware.Authenticate)
	}

	// Everything under /api requires a valid access token.
	api := e.Group("/api")
	api.Use(p.AuthMiddleware.Authenticate)
	{
		api.GET("/profile", p.UserHandler.GetProfile)
		api.POST("/onboarding/complete", p.UserHandler.CompleteOnboarding)
		api.PUT("/devices/token", p.UserHandler.RegisterDevice)

		api.GET("/medications", p.MedicationHandler.ListMedications)
		api.POST("/medications", p.MedicationHandler.CreateMedication)
		api.POST("/medications/scan-label", p.MedicationHandler.ScanLabel)
		api.GET("/medications/:id", p.MedicationHandler.GetMedication)
		api.PUT("/medications/:id", p.MedicationHandler.UpdateMedication)
		api.DELETE("/medications/:id", p.MedicationHandler.DeleteMedication)

		api.GET("/doses", p.DoseHandler.ListDoses)
		api.POST("/doses", p.DoseHandler.LogDose)
		api.DELETE("/doses/:id", p.DoseHandler.DeleteDose)

		api.GET("/caregivers", p.CaregiverHandler.ListCaregivers)
		api.POST("/caregivers", p.CaregiverHandler.CreateCaregiver)
		api.PUT("/caregivers/:id", p.CaregiverHandler.UpdateCaregiver)
		api.DELETE("/caregivers/:id", p.CaregiverHandler.DeleteCaregiver)
		api.POST("/caregivers/:id/alert", p.CaregiverHandler.Alert)
		api.GET("/patients/:id/view", p.CaregiverHandler.PatientView)

		api.GET("/notifications", p.NotificationHandler.ListNotifications)
		api.POST("/notifications/:id/read", p.NotificationHandler.MarkRead)
		api.POST("/notifications/read-all", p.NotificationHandler.MarkAllRead)

		api.GET("/voice-notes", p.VoiceNoteHandler.ListVoiceNotes)
		api.POST("/voice-notes", p.VoiceNoteHandler.CreateVoiceNote)
		api.DELETE("/voice-notes/:id", p.VoiceNoteHandler.DeleteVoiceNote)

		api.POST("/sms", p.SMSHandler.SendSMS)

		api.GET("/plan", p.BillingHandler.GetPlan)
		api.PUT("/plan", p.BillingHandler.SetPlan)

		// Mirror endpoints used by the device sync agents. Pulls return raw
		// row arrays, not the response envelope.
		api.GET("/sync/medications", p.SyncHandler.PullMedications)
		api.PUT("/sync/medications/:id", p.SyncHandler.UpsertMedication)
		api.DELETE("/sync/medications/:id", p.SyncHandler.DeleteMedication)
		api.DELETE("/sync/medications/:id/doses", p.SyncHandler.DeleteDosesByMedication)
		api.GET("/sync/doses", p.SyncHandler.PullDoses)
		api.PUT("/sync/doses/:id", p.SyncHandler.UpsertDose)
		api.DELETE("/sync/doses/:id", p.SyncHandler.DeleteDose)
		api.GET("/sync/voice-notes", p.SyncHandler.PullVoiceNotes)
		api.PUT("/sync/voice-notes/:id", p.SyncHandler.UpsertVoiceNote)
		api.DELETE("/sync/voice-notes/:id", p.SyncHandler.DeleteVoiceNote)
		api.GET("/sync/notifications", p.SyncHandler.PullNotifications)
	}

	// Scheduler endpoints are guarded by the shared cron secret instead of a
	// user token.
	cron := e.Group("/cron")
	cron.Use(p.CronMiddleware.Authenticate)
	{
		cron.POST("/missed-dose-check", p.CronHandler.MissedDoseCheck)
		cron.POST("/reminder-check", p.CronHandler.ReminderCheck)
	}
}
