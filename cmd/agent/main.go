// The agent binary runs on a device: it keeps the local medication data in
// blob storage and mirrors it against the server on a timer.
package main

import (
	"medtrack/config"
	logs "medtrack/internal/infra/log"
	"medtrack/internal/syncer"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.New,
			logs.New,
		),
		syncer.Module,
		fx.Invoke(func(engine *syncer.Engine) {
			// Constructing the engine registers the sync loop with the
			// lifecycle; referencing it here forces the wiring.
		}),
	).Run()
}
