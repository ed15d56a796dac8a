package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain/session"
)

// ProvideSessionService provides a session service.
func ProvideSessionService(
	sessionStore session.Store,
	minter session.TokenMinter,
	rooms session.RoomProvisioner,
	participants session.ParticipantLister,
	cfg *config.Config,
	log zerolog.Logger,
) session.Service {
	return session.NewService(session.Config{
		Store:              sessionStore,
		Minter:             minter,
		Rooms:              rooms,
		Participants:       participants,
		WsURL:              cfg.LiveKitWsURL,
		TokenTTL:           cfg.TokenTTL,
		EmptyTimeoutFloor:  cfg.RoomEmptyTimeoutFloor,
		EmptyTimeoutBuffer: cfg.RoomEmptyTimeoutBuffer,
	}, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideSessionService,
)
