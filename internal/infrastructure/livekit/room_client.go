package livekit

import (
	"context"
	"errors"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/twitchtv/twirp"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain/session"
)

// RoomClient provides access to LiveKit room management APIs.
type RoomClient struct {
	client *lksdk.RoomServiceClient
}

// NewRoomClient creates a new LiveKit room client.
func NewRoomClient(cfg *config.Config) *RoomClient {
	client := lksdk.NewRoomServiceClient(cfg.LiveKitWsURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret)
	return &RoomClient{client: client}
}

// CreateRoom creates a room from the given RoomSpec and classifies the result. A name
// collision is reported as RoomAlreadyExists via the provider's error code,
// not by matching message text.
func (c *RoomClient) CreateRoom(ctx context.Context, spec session.RoomSpec) (session.EnsureOutcome, error) {
	_, err := c.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            spec.Name,
		Metadata:        spec.Metadata,
		EmptyTimeout:    uint32(spec.EmptyTimeout.Seconds()),
		MaxParticipants: spec.MaxParticipants,
	})
	return classifyCreateError(err)
}

// classifyCreateError maps a create call result to a tagged outcome using the
// provider's twirp error code, never the message text.
func classifyCreateError(err error) (session.EnsureOutcome, error) {
	if err == nil {
		return session.RoomCreated, nil
	}

	var twerr twirp.Error
	if errors.As(err, &twerr) && twerr.Code() == twirp.AlreadyExists {
		return session.RoomAlreadyExists, nil
	}
	return session.RoomFailed, err
}

// UpdateMetadata replaces the metadata on an existing room.
func (c *RoomClient) UpdateMetadata(ctx context.Context, room, metadata string) error {
	_, err := c.client.UpdateRoomMetadata(ctx, &livekit.UpdateRoomMetadataRequest{
		Room:     room,
		Metadata: metadata,
	})
	return err
}

// RoomInfo contains basic room information.
type RoomInfo struct {
	Name            string
	NumParticipants int
}

// ListActiveRooms returns all active rooms with participant counts.
func (c *RoomClient) ListActiveRooms(ctx context.Context) (map[string]RoomInfo, error) {
	resp, err := c.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, err
	}

	rooms := make(map[string]RoomInfo)
	for _, room := range resp.Rooms {
		rooms[room.Name] = RoomInfo{
			Name:            room.Name,
			NumParticipants: int(room.NumParticipants),
		}
	}
	return rooms, nil
}

// ListParticipants returns participant identities for a room.
func (c *RoomClient) ListParticipants(ctx context.Context, room string) ([]string, error) {
	resp, err := c.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: room,
	})
	if err != nil {
		return nil, err
	}

	identities := make([]string, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		identities = append(identities, p.Identity)
	}
	return identities, nil
}
