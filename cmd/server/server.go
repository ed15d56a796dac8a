// @title           Session API
// @version         1.0
// @description     Session connection broker for live language lessons.
// @description     Provisions lesson rooms and mints short-lived room-scoped access tokens.

// @contact.name   Lingua Team
// @contact.url    https://github.com/lingua-server

// @host      localhost:8187
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from the identity provider

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/infrastructure/auth"
	"lingua-server/session-api/internal/infrastructure/livekit"
	"lingua-server/session-api/internal/infrastructure/logger"
	"lingua-server/session-api/internal/infrastructure/observability"
	"lingua-server/session-api/internal/infrastructure/store"
	"lingua-server/session-api/internal/interfaces/httpserver"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	syncer     *store.Syncer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, syncer *store.Syncer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		syncer:     syncer,
		log:        log,
	}
}

// Start runs the application.
func (a *Application) Start(ctx context.Context) error {
	a.syncer.Start(ctx)

	// Blocks until context cancelled
	err := a.httpServer.Run(ctx)

	a.syncer.Stop()

	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth validator")
	}

	tokenMinter := livekit.NewTokenMinter(cfg)
	roomClient := livekit.NewRoomClient(cfg)

	sessionStore := store.NewMemoryStore(log)

	syncer := store.NewSyncer(sessionStore, roomClient, cfg.SessionStaleTTL, cfg.SessionCleanupInterval, log)

	sessionService := session.NewService(session.Config{
		Store:              sessionStore,
		Minter:             tokenMinter,
		Rooms:              roomClient,
		Participants:       roomClient,
		WsURL:              cfg.LiveKitWsURL,
		TokenTTL:           cfg.TokenTTL,
		EmptyTimeoutFloor:  cfg.RoomEmptyTimeoutFloor,
		EmptyTimeoutBuffer: cfg.RoomEmptyTimeoutBuffer,
	}, log)

	httpServer := httpserver.New(cfg, log, sessionService, authValidator)

	app := NewApplication(httpServer, syncer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
