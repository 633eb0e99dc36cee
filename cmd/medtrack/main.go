package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"medtrack/config"
	"medtrack/internal/delivery"
	"medtrack/internal/delivery/http"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/router/handler"
	"medtrack/internal/domain/service"
	"medtrack/internal/infra/auth"
	logs "medtrack/internal/infra/log"
	"medtrack/internal/infra/persistence/postgres"
	"medtrack/internal/infra/pubsub"
	"medtrack/internal/infra/push"
	"medtrack/internal/infra/sms"
	"medtrack/internal/infra/vision"
	"medtrack/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewMedicationRepository,
			postgres.NewDoseRepository,
			postgres.NewCaregiverRepository,
			postgres.NewNotificationRepository,
			postgres.NewVoiceNoteRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			sms.New,
			vision.New,
			pubsub.NewEventPublisher,
			newPushService,
		),
	)
}

// newPushService creates the Firebase push service when configured. Push is
// optional; a nil PushService disables it everywhere.
func newPushService(ctx context.Context, cfg *config.Config) (service.PushService, error) {
	if cfg.Firebase == nil {
		return nil, nil
	}

	svc, err := push.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase service: %w", err)
	}

	return svc, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewMedicationService,
			impl.NewDoseService,
			impl.NewCaregiverService,
			impl.NewNotificationService,
			impl.NewVoiceNoteService,
			impl.NewSMSService,
			impl.NewBillingService,
			impl.NewScheduleService,
			impl.NewSyncService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewCronMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewMedicationHandler,
			handler.NewDoseHandler,
			handler.NewCaregiverHandler,
			handler.NewNotificationHandler,
			handler.NewVoiceNoteHandler,
			handler.NewSMSHandler,
			handler.NewBillingHandler,
			handler.NewSyncHandler,
			handler.NewCronHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
