package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/infrastructure/livekit"
	"lingua-server/session-api/internal/infrastructure/metrics"
)

// RoomLister reports currently active rooms with participant counts.
type RoomLister interface {
	ListActiveRooms(ctx context.Context) (map[string]livekit.RoomInfo, error)
}

// Syncer reconciles session records against live room state.
// It polls the media platform for active rooms and updates session state:
// - created → connected when the room has participants
// - delete the session when the room is empty or removed
// - delete stale sessions that never connected (after staleTTL)
type Syncer struct {
	store     session.Store
	rooms     RoomLister
	staleTTL  time.Duration
	interval  time.Duration
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSyncer creates a new session syncer.
func NewSyncer(
	store session.Store,
	rooms RoomLister,
	staleTTL time.Duration,
	interval time.Duration,
	log zerolog.Logger,
) *Syncer {
	return &Syncer{
		store:    store,
		rooms:    rooms,
		staleTTL: staleTTL,
		interval: interval,
		log:      log.With().Str("component", "session-syncer").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the sync loop in background.
// Safe to call multiple times - only the first call starts the syncer.
func (s *Syncer) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run(ctx)
		s.log.Info().Msg("session syncer started")
	})
}

// Stop gracefully shuts down the syncer.
// Safe to call multiple times - only the first call stops the syncer.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.log.Info().Msg("session syncer stopped")
	})
}

func (s *Syncer) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("context cancelled, shutting down syncer")
			return
		case <-s.done:
			s.log.Debug().Msg("done signal received, shutting down syncer")
			return
		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

// sync polls active rooms and reconciles session state.
func (s *Syncer) sync(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.RoomSyncDuration.Observe(time.Since(start).Seconds())
	}()

	activeRooms, err := s.rooms.ListActiveRooms(ctx)
	if err != nil {
		metrics.RoomSyncErrors.Inc()
		s.log.Warn().Err(err).Msg("failed to list active rooms, falling back to TTL cleanup")
		s.cleanupByTTL(ctx)
		return
	}

	sessions, err := s.store.List(ctx)
	if err != nil {
		metrics.RoomSyncErrors.Inc()
		s.log.Error().Err(err).Msg("failed to list sessions from store")
		return
	}

	liveRooms := make([]string, 0, len(activeRooms))
	for name, info := range activeRooms {
		liveRooms = append(liveRooms, fmt.Sprintf("%s(%d)", name, info.NumParticipants))
	}
	trackedRooms := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		trackedRooms = append(trackedRooms, fmt.Sprintf("%s(%s)", sess.RoomName, sess.State))
	}

	s.log.Debug().
		Strs("live_rooms", liveRooms).
		Strs("tracked_sessions", trackedRooms).
		Msg("sync cycle")

	now := time.Now()

	for _, sess := range sessions {
		roomInfo, roomExists := activeRooms[sess.RoomName]

		switch {
		case !roomExists || roomInfo.NumParticipants == 0:
			if sess.State == session.StateConnected {
				// Was connected, room is gone now.
				if err := s.store.Delete(ctx, sess.ID); err == nil {
					metrics.RecordSessionDeleted()
					s.log.Info().
						Str("action", "deleted").
						Str("room", sess.RoomName).
						Str("reason", "room_empty").
						Msg("session cleanup")
				}
			} else if sess.State == session.StateCreated && now.Sub(sess.CreatedAt) > s.staleTTL {
				// Never connected and stale.
				if err := s.store.Delete(ctx, sess.ID); err == nil {
					metrics.RecordSessionDeleted()
					s.log.Info().
						Str("action", "deleted").
						Str("room", sess.RoomName).
						Str("reason", "stale").
						Dur("age", now.Sub(sess.CreatedAt)).
						Msg("session cleanup")
				}
			}

		case roomInfo.NumParticipants > 0 && sess.State == session.StateCreated:
			if err := s.store.UpdateState(ctx, sess.ID, session.StateConnected); err == nil {
				metrics.RecordStateTransition(string(session.StateCreated), string(session.StateConnected))
				s.log.Info().
					Str("action", "connected").
					Str("room", sess.RoomName).
					Int("participants", roomInfo.NumParticipants).
					Msg("session updated")
			}
		}
	}
}

// cleanupByTTL is a fallback when the media platform is unreachable.
// Only cleans up stale sessions that never connected.
func (s *Syncer) cleanupByTTL(ctx context.Context) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list sessions for TTL cleanup")
		return
	}

	now := time.Now()
	stale := 0

	for _, sess := range sessions {
		if sess.State == session.StateCreated && now.Sub(sess.CreatedAt) > s.staleTTL {
			if err := s.store.Delete(ctx, sess.ID); err == nil {
				metrics.RecordSessionDeleted()
				stale++
			}
		}
	}

	if stale > 0 {
		s.log.Info().
			Int("stale_deleted", stale).
			Msg("TTL fallback cleanup completed")
	}
}
