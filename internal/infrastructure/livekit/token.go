package livekit

import (
	"time"

	"github.com/livekit/protocol/auth"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/infrastructure/metrics"
	"lingua-server/session-api/internal/utils/platformerrors"
)

// TokenMinter mints LiveKit access tokens scoped to a single room.
type TokenMinter struct {
	apiKey    string
	apiSecret string
}

// NewTokenMinter creates a new token minter.
func NewTokenMinter(cfg *config.Config) *TokenMinter {
	return &TokenMinter{
		apiKey:    cfg.LiveKitAPIKey,
		apiSecret: cfg.LiveKitAPISecret,
	}
}

// Mint creates a signed access token for the given identity and room. The
// token carries exactly one room grant and expires after ttl.
func (m *TokenMinter) Mint(identity session.Identity, room string, grant session.Grant, ttl time.Duration) (*session.AccessCredential, error) {
	if m.apiKey == "" || m.apiSecret == "" {
		return nil, platformerrors.NewError(nil, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration, "signing credentials are not configured", nil)
	}

	start := time.Now()
	defer func() {
		metrics.TokenMintDuration.Observe(time.Since(start).Seconds())
	}()

	canPublish := grant.CanPublish
	canSubscribe := grant.CanSubscribe
	canPublishData := grant.CanPublishData
	canUpdateOwnMetadata := grant.CanUpdateOwnMetadata

	videoGrant := &auth.VideoGrant{
		RoomJoin:             grant.RoomJoin,
		Room:                 room,
		CanPublish:           &canPublish,
		CanSubscribe:         &canSubscribe,
		CanPublishData:       &canPublishData,
		CanUpdateOwnMetadata: &canUpdateOwnMetadata,
	}

	at := auth.NewAccessToken(m.apiKey, m.apiSecret)
	at.AddGrant(videoGrant).
		SetIdentity(identity.SubjectID).
		SetName(identity.DisplayName).
		SetValidFor(ttl)
	if identity.Metadata != "" {
		at.SetMetadata(identity.Metadata)
	}

	jwt, err := at.ToJWT()
	if err != nil {
		return nil, platformerrors.NewError(nil, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal, "failed to sign access token", err)
	}

	return &session.AccessCredential{
		Token:     jwt,
		Room:      room,
		Identity:  identity.SubjectID,
		Grant:     grant,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
