package syncer

import (
	"context"
	"log/slog"

	"medtrack/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds the dependencies for the sync engine, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// Engine bundles the session's sync components so the agent binary receives
// them as one explicitly constructed unit rather than process-wide globals.
type Engine struct {
	Blobs        BlobStore
	Ledger       *Ledger
	Store        *LocalStore
	Mirror       *Mirror
	Orchestrator *Orchestrator
}

// NewEngine wires blob store, ledger, local store, mirror and orchestrator
// from configuration and registers the orchestrator's timer loop with the Fx
// lifecycle.
func NewEngine(params Params) (*Engine, error) {
	cfg := params.Config.Sync
	if cfg == nil {
		return nil, errors.New("sync configuration is required")
	}
	if cfg.ServerURL == "" {
		return nil, errors.New("sync server URL is required")
	}
	if cfg.DataDir == "" {
		return nil, errors.New("sync data directory is required")
	}

	blobs, err := NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	ledger, err := NewLedger(blobs)
	if err != nil {
		return nil, err
	}

	store, err := NewLocalStore(blobs, ledger)
	if err != nil {
		return nil, err
	}

	backend := NewHTTPBackend(cfg.ServerURL, cfg.Email, cfg.Password, cfg.RequestTimeout)
	mirror := NewMirror(backend)

	orchestrator := NewOrchestrator(store, ledger, mirror, blobs, OrchestratorConfig{
		Interval: cfg.Interval,
		Timeout:  cfg.RequestTimeout,
	}, params.Logger)

	runCtx, cancel := context.WithCancel(context.Background())

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.Logger.Info("starting sync loop",
				slog.String("server", cfg.ServerURL),
				slog.Duration("interval", cfg.Interval),
			)
			go orchestrator.Run(runCtx)

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})

	return &Engine{
		Blobs:        blobs,
		Ledger:       ledger,
		Store:        store,
		Mirror:       mirror,
		Orchestrator: orchestrator,
	}, nil
}

// Module provides the sync engine to the Fx container.
var Module = fx.Options(
	fx.Provide(NewEngine),
)
