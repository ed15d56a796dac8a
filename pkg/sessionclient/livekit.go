package sessionclient

import (
	"context"
	"errors"

	lksdk "github.com/livekit/server-sdk-go/v2"
)

// LiveKitTransport connects to LiveKit rooms using the server SDK.
type LiveKitTransport struct{}

// NewLiveKitTransport creates a LiveKit-backed transport.
func NewLiveKitTransport() *LiveKitTransport {
	return &LiveKitTransport{}
}

// Connect joins the room named in the details using the embedded token.
func (t *LiveKitTransport) Connect(ctx context.Context, details *ConnectionDetails, onDisconnect func()) (TransportConn, error) {
	if details == nil {
		return nil, errors.New("nil connection details")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	room, err := lksdk.ConnectToRoomWithToken(
		details.ServerURL,
		details.ParticipantToken,
		&lksdk.RoomCallback{
			OnDisconnected: onDisconnect,
		},
		lksdk.WithAutoSubscribe(true),
	)
	if err != nil {
		return nil, err
	}

	// The SDK connect call does not take a context; honour a cancellation
	// that raced the connect by tearing the room down immediately.
	if err := ctx.Err(); err != nil {
		room.Disconnect()
		return nil, err
	}

	return &liveKitConn{room: room}, nil
}

type liveKitConn struct {
	room *lksdk.Room
}

func (c *liveKitConn) Disconnect() {
	c.room.Disconnect()
}
