package components

import (
	"timegrid/internal/handler"
	"timegrid/internal/handler/api"
	"timegrid/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewRulesetHandler,
		api.NewEventHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
