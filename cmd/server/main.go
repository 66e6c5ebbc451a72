package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/ephero/internal/adapters/http"
	"github.com/dkeye/ephero/internal/app"
	"github.com/dkeye/ephero/internal/app/orch"
	"github.com/dkeye/ephero/internal/audit"
	"github.com/dkeye/ephero/internal/config"
	"github.com/dkeye/ephero/internal/core"
)

func setupLogger(cfg *config.Config) {
	if cfg.Mode == "debug" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console output until the config says otherwise.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	action, err := app.ParseBackpressure(cfg.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backpressure setting")
	}

	rooms := core.NewRoomRegistry(core.RoomOptions{
		DefaultTTL:    cfg.Room.TTL,
		MaxMembers:    cfg.Room.MaxMembers,
		SweepInterval: cfg.Room.SweepInterval,
	})
	limiter := app.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	auditor := audit.New(audit.Options{SlowOperation: cfg.SlowOperation})

	o := &orch.Orchestrator{
		Conns:            app.NewConnectionRegistry(),
		Rooms:            rooms,
		Limiter:          limiter,
		Policy:           app.SimplePolicy{Action: action},
		Audit:            auditor,
		MaxTextLength:    cfg.MaxTextLength,
		CloseOnRateLimit: cfg.RateLimit.CloseOnExceed,
	}

	// Background loops and connection pumps outlive the signal context so
	// rooms can still notify members during shutdown.
	runCtx, stop := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Go(func() { rooms.Run(runCtx) })
	wg.Go(func() { limiter.Run(runCtx, cfg.RateLimit.CleanupInterval) })
	wg.Go(func() { auditor.Run(runCtx) })

	r := router.SetupRouter(runCtx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Ephero relay started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	rooms.Close()
	stop()
	wg.Wait()
	log.Info().Int("connections", o.Conns.Count()).Msg("Server exited gracefully")
}
