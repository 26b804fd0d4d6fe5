package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"expo-booth-service/internal/pkg/config"
	"expo-booth-service/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the expiry sweeper on a fixed interval for the lifetime
// of the application. The sweep itself is idempotent, so a missed or doubled
// tick is harmless.
func StartSweeper(lc fx.Lifecycle, sweeper commands.SweeperCommands, cfg config.ReservationConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ticker := time.NewTicker(cfg.SweepInterval)
			go func() {
				defer close(done)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := sweeper.SweepExpired(ctx); err != nil {
							slog.Error("expiry sweep failed", "error", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
