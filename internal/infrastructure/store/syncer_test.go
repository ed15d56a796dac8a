package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/infrastructure/livekit"
)

type fakeRoomLister struct {
	rooms map[string]livekit.RoomInfo
	err   error
}

func (f *fakeRoomLister) ListActiveRooms(_ context.Context) (map[string]livekit.RoomInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

func seedSession(t *testing.T, s *MemoryStore, id, room string, state session.SessionState, age time.Duration) {
	t.Helper()
	err := s.Create(context.Background(), &session.Session{
		ID:        id,
		RoomName:  room,
		SubjectID: "u1",
		State:     state,
		CreatedAt: time.Now().Add(-age),
	})
	if err != nil {
		t.Fatalf("seed session %s: %v", id, err)
	}
}

func TestSyncer_MarksConnectedWhenRoomHasParticipants(t *testing.T) {
	memStore := NewMemoryStore(zerolog.Nop())
	seedSession(t, memStore, "s1", "room-a", session.StateCreated, time.Minute)

	lister := &fakeRoomLister{rooms: map[string]livekit.RoomInfo{
		"room-a": {Name: "room-a", NumParticipants: 1},
	}}
	syncer := NewSyncer(memStore, lister, 10*time.Minute, time.Second, zerolog.Nop())

	syncer.sync(context.Background())

	got, err := memStore.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.State != session.StateConnected {
		t.Errorf("state = %v, want connected", got.State)
	}
}

func TestSyncer_DeletesConnectedSessionWhenRoomGone(t *testing.T) {
	memStore := NewMemoryStore(zerolog.Nop())
	seedSession(t, memStore, "s1", "room-a", session.StateConnected, time.Minute)

	lister := &fakeRoomLister{rooms: map[string]livekit.RoomInfo{}}
	syncer := NewSyncer(memStore, lister, 10*time.Minute, time.Second, zerolog.Nop())

	syncer.sync(context.Background())

	if _, err := memStore.Get(context.Background(), "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected session deleted, got err = %v", err)
	}
}

func TestSyncer_DeletesStaleCreatedSession(t *testing.T) {
	memStore := NewMemoryStore(zerolog.Nop())
	seedSession(t, memStore, "stale", "room-a", session.StateCreated, 20*time.Minute)
	seedSession(t, memStore, "fresh", "room-b", session.StateCreated, time.Minute)

	lister := &fakeRoomLister{rooms: map[string]livekit.RoomInfo{}}
	syncer := NewSyncer(memStore, lister, 10*time.Minute, time.Second, zerolog.Nop())

	syncer.sync(context.Background())

	if _, err := memStore.Get(context.Background(), "stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected stale session deleted, got err = %v", err)
	}
	if _, err := memStore.Get(context.Background(), "fresh"); err != nil {
		t.Errorf("fresh session must survive, got err = %v", err)
	}
}

func TestSyncer_FallsBackToTTLCleanupWhenListFails(t *testing.T) {
	memStore := NewMemoryStore(zerolog.Nop())
	seedSession(t, memStore, "stale", "room-a", session.StateCreated, 20*time.Minute)
	seedSession(t, memStore, "connected", "room-b", session.StateConnected, 20*time.Minute)

	lister := &fakeRoomLister{err: errors.New("platform unreachable")}
	syncer := NewSyncer(memStore, lister, 10*time.Minute, time.Second, zerolog.Nop())

	syncer.sync(context.Background())

	if _, err := memStore.Get(context.Background(), "stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected stale session deleted via TTL fallback, got err = %v", err)
	}
	// Connected sessions are spared by the fallback: only the platform can
	// confirm the room is gone.
	if _, err := memStore.Get(context.Background(), "connected"); err != nil {
		t.Errorf("connected session must survive TTL fallback, got err = %v", err)
	}
}

func TestSyncer_StartStopIdempotent(t *testing.T) {
	memStore := NewMemoryStore(zerolog.Nop())
	lister := &fakeRoomLister{rooms: map[string]livekit.RoomInfo{}}
	syncer := NewSyncer(memStore, lister, 10*time.Minute, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncer.Start(ctx)
	syncer.Start(ctx)
	syncer.Stop()
	syncer.Stop()
}
