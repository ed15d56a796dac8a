//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain"
	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/infrastructure/auth"
	"lingua-server/session-api/internal/infrastructure/livekit"
	"lingua-server/session-api/internal/infrastructure/store"
	"lingua-server/session-api/internal/interfaces/httpserver"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideTokenMinter,
	ProvideRoomClient,
	ProvideRoomProvisioner,
	ProvideParticipantLister,
	ProvideSessionStore,
	ProvideSyncer,
	ProvideAuthValidator,

	// Domain providers
	domain.ServiceProvider,

	// Interface providers
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideTokenMinter provides a LiveKit token minter.
func ProvideTokenMinter(cfg *config.Config) session.TokenMinter {
	return livekit.NewTokenMinter(cfg)
}

// ProvideRoomClient provides a LiveKit room client.
func ProvideRoomClient(cfg *config.Config) *livekit.RoomClient {
	return livekit.NewRoomClient(cfg)
}

// ProvideRoomProvisioner provides the room provisioner backed by the room client.
func ProvideRoomProvisioner(client *livekit.RoomClient) session.RoomProvisioner {
	return client
}

// ProvideParticipantLister provides room occupancy lookups backed by the room client.
func ProvideParticipantLister(client *livekit.RoomClient) session.ParticipantLister {
	return client
}

// ProvideSessionStore provides a session store.
func ProvideSessionStore(log zerolog.Logger) session.Store {
	return store.NewMemoryStore(log)
}

// ProvideSyncer provides a session syncer.
func ProvideSyncer(
	sessionStore session.Store,
	roomClient *livekit.RoomClient,
	cfg *config.Config,
	log zerolog.Logger,
) *store.Syncer {
	return store.NewSyncer(sessionStore, roomClient, cfg.SessionStaleTTL, cfg.SessionCleanupInterval, log)
}

// ProvideAuthValidator provides an auth validator.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, *store.Syncer, error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
