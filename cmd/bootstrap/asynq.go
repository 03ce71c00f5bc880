package bootstrap

import (
	"context"
	"log/slog"

	"timegrid/internal/infra/notify"
	"timegrid/internal/pkg/config"
	"timegrid/internal/usecase/commands"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var AsynqModule = fx.Module("asynq",
	fx.Provide(
		NewAsynqClient,
		fx.Annotate(
			notify.NewEnqueuer,
			fx.As(new(commands.ConfirmationEnqueuer)),
		),
		notify.NewConfirmationHandler,
	),
	fx.Invoke(StartWorker),
)

func asynqRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func NewAsynqClient(lc fx.Lifecycle, cfg config.Config) *asynq.Client {
	client := asynq.NewClient(asynqRedisOpt(cfg))

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}

// StartWorker runs the task consumer inside the API process. Concurrency is
// modest; confirmation fan-out is light.
func StartWorker(lc fx.Lifecycle, cfg config.Config, handler *notify.ConfirmationHandler, logger *slog.Logger) {
	srv := asynq.NewServer(asynqRedisOpt(cfg), asynq.Config{
		Concurrency: 5,
	})

	mux := asynq.NewServeMux()
	mux.Handle(notify.TypeBookingConfirmed, handler)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Run(mux); err != nil {
					logger.Error("task worker stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}
