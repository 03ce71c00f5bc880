package components

import (
	repo_impl "timegrid/internal/infra/repository"
	"timegrid/internal/infra/sessionstore"
	"timegrid/internal/pkg/config"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewRulesetRepository,
			fx.As(new(commands.RulesetRepository)),
			fx.As(new(queries.RulesetReader)),
		),
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(commands.EventRepository)),
			fx.As(new(queries.EventReader)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
			fx.As(new(queries.UserReader)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		fx.Annotate(
			repo_impl.NewTransactor,
			fx.As(new(commands.Transactor)),
		),
		fx.Annotate(
			NewSessionStore,
			fx.As(new(commands.SessionStore)),
			fx.As(new(queries.SessionReader)),
		),
	),
)

func NewSessionStore(client *redis.Client, cfg config.Config) *sessionstore.Store {
	return sessionstore.NewStore(client, cfg.Booking.SessionTTL)
}
