package bootstrap

import (
	"context"
	"log/slog"

	"timegrid/internal/pkg/config"
	"timegrid/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var CronModule = fx.Module("cron",
	fx.Invoke(StartCleanupJobs),
)

// StartCleanupJobs schedules the idempotency key purge.
func StartCleanupJobs(lc fx.Lifecycle, cfg config.Config, bookings *commands.BookingCommands, logger *slog.Logger) error {
	c := cron.New()

	_, err := c.AddFunc(cfg.Cleanup.Schedule, func() {
		ctx := context.Background()
		purged, err := bookings.PurgeExpiredIdempotencyKeys(ctx)
		if err != nil {
			logger.Error("idempotency purge failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Info("purged expired idempotency keys", "count", purged)
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})
	return nil
}
