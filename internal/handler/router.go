package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"timegrid/internal/handler/api"
	"timegrid/internal/handler/middleware"
	"timegrid/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	rulesetHandler *api.RulesetHandler,
	eventHandler *api.EventHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, rulesetHandler, eventHandler, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	rulesetHandler *api.RulesetHandler,
	eventHandler *api.EventHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		rulesets := apiGroup.Group("/rulesets")
		rulesets.Use(authMiddleware.RequireAuth())
		{
			addRoutes(rulesets, []route{
				{Method: http.MethodPost, Path: "", Handler: rulesetHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: rulesetHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: rulesetHandler.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: rulesetHandler.Save},
				{Method: http.MethodPut, Path: "/:id/active", Handler: rulesetHandler.SetActive},
				{Method: http.MethodPost, Path: "/:id/days/:weekday/toggle", Handler: rulesetHandler.ToggleDay},
				{Method: http.MethodPost, Path: "/:id/days/:weekday/windows", Handler: rulesetHandler.AddWindow},
				{Method: http.MethodPut, Path: "/:id/days/:weekday/windows/:windowId", Handler: rulesetHandler.UpdateWindow},
				{Method: http.MethodDelete, Path: "/:id/days/:weekday/windows/:windowId", Handler: rulesetHandler.RemoveWindow},
			})
		}

		events := apiGroup.Group("/events")
		events.Use(authMiddleware.RequireAuth())
		{
			addRoutes(events, []route{
				{Method: http.MethodPost, Path: "", Handler: eventHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: eventHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: eventHandler.Get},
			})
		}

		// Visitor-facing endpoints: no authentication, sessions are the only credential.
		public := apiGroup.Group("/public")
		{
			addRoutes(public, []route{
				{Method: http.MethodGet, Path: "/events/:slug", Handler: bookingHandler.GetEvent},
				{Method: http.MethodGet, Path: "/events/:slug/slots", Handler: bookingHandler.ListSlots},
				{Method: http.MethodPost, Path: "/events/:slug/sessions", Handler: bookingHandler.StartSession},
				{Method: http.MethodGet, Path: "/sessions/:id", Handler: bookingHandler.GetSession},
				{Method: http.MethodPost, Path: "/sessions/:id/details", Handler: bookingHandler.SubmitDetails},
				{Method: http.MethodPost, Path: "/sessions/:id/date", Handler: bookingHandler.SelectDate},
				{Method: http.MethodPost, Path: "/sessions/:id/slot", Handler: bookingHandler.SelectSlot},
				{Method: http.MethodPost, Path: "/sessions/:id/back", Handler: bookingHandler.Back},
				{Method: http.MethodPost, Path: "/sessions/:id/confirm", Handler: bookingHandler.Confirm},
				{Method: http.MethodPost, Path: "/sessions/:id/cancel", Handler: bookingHandler.Cancel},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
