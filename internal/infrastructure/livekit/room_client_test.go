package livekit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/twitchtv/twirp"

	"lingua-server/session-api/internal/domain/session"
)

func TestClassifyCreateError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOutcome session.EnsureOutcome
		wantErr     bool
	}{
		{
			name:        "success",
			err:         nil,
			wantOutcome: session.RoomCreated,
		},
		{
			name:        "already exists code",
			err:         twirp.NewError(twirp.AlreadyExists, "room already exists"),
			wantOutcome: session.RoomAlreadyExists,
		},
		{
			name:        "wrapped already exists code",
			err:         fmt.Errorf("create room: %w", twirp.NewError(twirp.AlreadyExists, "duplicate")),
			wantOutcome: session.RoomAlreadyExists,
		},
		{
			name:        "message text alone is not a collision",
			err:         errors.New("room already exists"),
			wantOutcome: session.RoomFailed,
			wantErr:     true,
		},
		{
			name:        "other twirp code",
			err:         twirp.NewError(twirp.Internal, "boom"),
			wantOutcome: session.RoomFailed,
			wantErr:     true,
		},
		{
			name:        "plain error",
			err:         errors.New("connection refused"),
			wantOutcome: session.RoomFailed,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := classifyCreateError(tt.err)
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
