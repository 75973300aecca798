package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genpass/genpass-go/internal/config"
	"github.com/genpass/genpass-go/internal/crypto"
	"github.com/genpass/genpass-go/internal/handler"
	"github.com/genpass/genpass-go/internal/middleware"
	"github.com/genpass/genpass-go/internal/repository"
	"github.com/genpass/genpass-go/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	// Set before Load so config warnings use the production format too.
	slog.SetDefault(config.NewLogger(os.Stdout, os.Getenv("ENV")))

	cfg := config.Load()

	src, err := crypto.NewSecureSource(crypto.SourceOptions{Strict: cfg.StrictEntropy})
	if err != nil {
		slog.Error("entropy source unavailable", "error", err)
		os.Exit(1)
	}

	var presets []config.PresetConfig
	if cfg.PresetsFile != "" {
		presets, err = config.LoadPresets(cfg.PresetsFile)
		if err != nil {
			slog.Error("loading presets failed", "path", cfg.PresetsFile, "error", err)
			os.Exit(1)
		}
	}

	fingerprinter, err := crypto.NewFingerprinter(cfg.FingerprintKey)
	if err != nil {
		slog.Error("invalid FINGERPRINT_KEY", "error", err)
		os.Exit(1)
	}

	genOpts := service.GeneratorOptions{
		MaxAttempts:   cfg.MaxAttempts,
		Presets:       presets,
		Fingerprinter: fingerprinter,
	}

	// Event recording and stats need a database; generation does not.
	var statsHandler *handler.StatsHandler
	if cfg.DatabaseDSN == "" {
		slog.Warn("DATABASE_DSN not set — event recording and stats disabled")
	} else if db, err := repository.NewDB(cfg.DatabaseDSN); err != nil {
		slog.Warn("database connection failed — event recording and stats disabled", "error", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			slog.Warn("creating schema failed", "error", err)
		}
		cancel()

		eventRepo := repository.NewEventRepository(db)
		genOpts.Recorder = eventRepo
		statsHandler = handler.NewStatsHandler(service.NewStatsService(eventRepo))
	}

	genService, err := service.NewGeneratorService(crypto.NewGenerator(src), genOpts)
	if err != nil {
		slog.Error("invalid preset configuration", "error", err)
		os.Exit(1)
	}
	genHandler := handler.NewGeneratorHandler(genService)
	pageHandler := handler.NewPageHandler(genService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Get("/", pageHandler.HandleIndex)
		r.Get("/v2/", pageHandler.HandleV2)

		r.Get("/api/", genHandler.HandlePlain(service.PresetSegmented))
		r.Get("/api_v2/", genHandler.HandlePlain(service.PresetExtended))
		r.Post("/api/generate", genHandler.HandleGenerate)
		r.Post("/api/generate/v2", genHandler.HandleGenerateV2)
		r.Get("/api/presets", genHandler.HandleListPresets)
		r.Get("/api/presets/{name}", genHandler.HandlePreset)
	})

	if statsHandler != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret, crypto.ScopeStatsRead))
			r.Get("/api/stats", statsHandler.HandleStats)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "secure_entropy", src.Secure())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
