// Command sadi-web is the browser-facing BFF for the AccesoSEN backend. It
// keeps each browser's backend tokens server-side, keyed by an opaque
// session cookie, and exposes the session, access, and directory flows over
// plain JSON.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accesosen/sadi-client/internal/api"
	"github.com/accesosen/sadi-client/internal/api/scope"
	"github.com/accesosen/sadi-client/internal/infrastructure/config"
	redisdb "github.com/accesosen/sadi-client/internal/infrastructure/db/redis"
	"github.com/accesosen/sadi-client/pkg/logger"
)

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	factory := scope.NewFactory(cfg.API.BaseURL, cfg.API.Timeout, cfg.Redis.SessionTTL, rdb, log)
	e := api.NewRouter(cfg, factory, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.API.BaseURL).Msg("sadi-web listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
