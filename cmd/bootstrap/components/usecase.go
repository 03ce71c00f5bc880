package components

import (
	"timegrid/internal/pkg/clock"
	"timegrid/internal/pkg/config"
	"timegrid/internal/pkg/timezone"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	timezone.NewConverter,
	func(cfg config.Config) config.BookingConfig {
		return cfg.Booking
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewRulesetCommands,
		commands.NewEventCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRulesetQueries,
		queries.NewEventQueries,
		queries.NewSlotQueries,
		queries.NewSessionQueries,
		queries.NewTokenValidator,
	),
)
