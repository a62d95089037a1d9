package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/accesosen/sadi-client/internal/api/handler"
	"github.com/accesosen/sadi-client/internal/api/middleware"
	"github.com/accesosen/sadi-client/internal/api/scope"
	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/infrastructure/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, factory *scope.Factory, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("sadi_bff"))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(factory, cfg.Lockout.MaxAttempts, cfg.Lockout.Window)
	accessHandler := handler.NewAccessHandler(factory)
	shiftHandler := handler.NewShiftHandler(factory)
	directoryHandler := handler.NewDirectoryHandler(factory)
	notificationHandler := handler.NewNotificationHandler(factory)

	// --- Session routes (no role guard; login is how you get one) ---
	e.GET("/session", sessionHandler.Current)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.POST("/session/turno/finalizar", sessionHandler.FinishShift)
	e.POST("/session/password-reset/request", sessionHandler.ResetRequest)
	e.POST("/session/password-reset/verify", sessionHandler.ResetVerify)
	e.POST("/session/password-reset/confirm", sessionHandler.ResetConfirm)

	// --- Guard routes ---
	guardia := e.Group("/guardia", middleware.RouteGuard(factory, domain.RoleGuard))
	guardia.POST("/accesos/validar", accessHandler.Validate)
	guardia.POST("/accesos/registrar", accessHandler.Register)
	guardia.GET("/accesos/stats", accessHandler.Stats)
	guardia.GET("/turnos/:id/resumen", shiftHandler.Resumen)
	guardia.GET("/notificaciones", notificationHandler.List)
	guardia.PATCH("/notificaciones/:id/leer", notificationHandler.MarcarLeida)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RouteGuard(factory, domain.RoleAdmin))
	admin.GET("/accesos", accessHandler.List)
	admin.GET("/turnos", shiftHandler.ListTurnos)
	admin.POST("/turnos/:id/finalizar", shiftHandler.FinalizarAdmin)
	admin.GET("/usuarios", directoryHandler.ListUsuarios)
	admin.POST("/usuarios", directoryHandler.CreateUsuario)
	admin.PATCH("/usuarios/:id", directoryHandler.UpdateUsuario)
	admin.DELETE("/usuarios/:id", directoryHandler.DeleteUsuario)
	admin.GET("/equipos", directoryHandler.ListEquipos)
	admin.PATCH("/equipos/:id", directoryHandler.UpdateEquipo)
	admin.DELETE("/equipos/:id", directoryHandler.DeleteEquipo)
	admin.POST("/equipos/:id/revisar", directoryHandler.RevisarEquipo)

	// --- Learner routes ---
	aprendiz := e.Group("/aprendiz", middleware.RouteGuard(factory, domain.RoleLearner))
	aprendiz.GET("/accesos", accessHandler.MisAccesos)
	aprendiz.GET("/estado", accessHandler.Estado)
	aprendiz.GET("/equipos", directoryHandler.ListEquipos)
	aprendiz.POST("/equipos", directoryHandler.CreateEquipo)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(rdb, cfg.API.BaseURL)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
