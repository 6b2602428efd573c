// Command server runs the tag service HTTP API.
//
//	@title			Tag Service API
//	@version		1.0
//	@description	Stores short user-submitted tags with per-client write quotas, serves a random tag cloud and a sitemap.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-tag-backend/internal/config"
	"github.com/tbourn/go-tag-backend/internal/domain"
	httpapi "github.com/tbourn/go-tag-backend/internal/http"
	"github.com/tbourn/go-tag-backend/internal/observability"
	"github.com/tbourn/go-tag-backend/internal/repo"
	"github.com/tbourn/go-tag-backend/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer scancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var seeds []string
	if cfg.SeedExamples {
		seeds = domain.ExampleTags
	}
	store := repo.NewStore(repo.SQLiteOpener(cfg.DBPath), seeds)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()
	// The store retries on each request, so a failure here only degrades.
	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Str("db_path", cfg.DBPath).Msg("tag store unavailable at startup")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := httpapi.RegisterRoutes(r, store, cfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	srv := &http.Server{
		Addr:              sysutil.ListenAddr(cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("version", version).
		Str("db_path", cfg.DBPath).
		Dur("quota_window", cfg.QuotaWindow).
		Int("quota_max", cfg.QuotaMax).
		Msg("tag service listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
		cancel()
		return
	}
	log.Info().Msg("server stopped")
}
