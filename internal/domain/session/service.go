package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/infrastructure/metrics"
	"lingua-server/session-api/internal/utils/idgen"
	"lingua-server/session-api/internal/utils/platformerrors"
)

// TokenMinter constructs signed, time-boxed, room-scoped access credentials.
type TokenMinter interface {
	Mint(identity Identity, room string, grant Grant, ttl time.Duration) (*AccessCredential, error)
}

// RoomProvisioner ensures lesson rooms exist on the media platform.
// CreateRoom reports a tagged outcome; the service routes AlreadyExists to
// UpdateMetadata so the room always reflects the most recent attempt.
type RoomProvisioner interface {
	CreateRoom(ctx context.Context, spec RoomSpec) (EnsureOutcome, error)
	UpdateMetadata(ctx context.Context, room, metadata string) error
}

// ParticipantLister reports who is currently in a room on the media platform.
type ParticipantLister interface {
	ListParticipants(ctx context.Context, room string) ([]string, error)
}

// Service defines the business operations for session brokering.
type Service interface {
	// CreateSession provisions a lesson room and mints connection details.
	CreateSession(ctx context.Context, req *SessionRequest) (*ConnectionDetails, error)
	// CreateDefaultSession mints connection details against a fresh room with
	// no lesson metadata. Diagnostic/guest use only.
	CreateDefaultSession(ctx context.Context) (*ConnectionDetails, error)

	GetSession(ctx context.Context, id string) (*Session, error)
	ListSubjectSessions(ctx context.Context, subjectID string) ([]*Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type service struct {
	store              Store
	minter             TokenMinter
	rooms              RoomProvisioner
	participants       ParticipantLister
	wsURL              string
	tokenTTL           time.Duration
	emptyTimeoutFloor  time.Duration
	emptyTimeoutBuffer time.Duration
	log                zerolog.Logger
}

// Config holds the dependencies and tuning for the session service.
type Config struct {
	Store              Store
	Minter             TokenMinter
	Rooms              RoomProvisioner
	// Participants is optional; when set, GetSession reports live room
	// occupancy for connected sessions.
	Participants       ParticipantLister
	WsURL              string
	TokenTTL           time.Duration
	EmptyTimeoutFloor  time.Duration
	EmptyTimeoutBuffer time.Duration
}

// NewService creates a new session service.
func NewService(cfg Config, log zerolog.Logger) Service {
	return &service{
		store:              cfg.Store,
		minter:             cfg.Minter,
		rooms:              cfg.Rooms,
		participants:       cfg.Participants,
		wsURL:              cfg.WsURL,
		tokenTTL:           cfg.TokenTTL,
		emptyTimeoutFloor:  cfg.EmptyTimeoutFloor,
		emptyTimeoutBuffer: cfg.EmptyTimeoutBuffer,
		log:                log.With().Str("component", "session-service").Logger(),
	}
}

func (s *service) CreateSession(ctx context.Context, req *SessionRequest) (*ConnectionDetails, error) {
	if req == nil || req.SubjectID == "" || req.Lesson == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing subjectId or lessonContext", nil)
	}
	if err := s.checkConfigured(ctx); err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = DefaultDisplayName
	}

	sessionID, err := idgen.GenerateSessionID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to generate session ID", err)
	}

	// Room names are self-describing for debugging: subject, lesson, session.
	roomName := fmt.Sprintf("lesson-%s-%s-%s", req.SubjectID, req.Lesson.LessonID, sessionID)

	now := time.Now().UTC()
	metadata := RoomMetadata{
		Context:              *req.Lesson,
		SubjectID:            req.SubjectID,
		SessionID:            sessionID,
		CreatedAt:            now,
		TeachingMode:         "conversation",
		TranscriptionEnabled: true,
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to serialize room metadata", err)
	}

	s.provisionRoom(ctx, RoomSpec{
		Name:            roomName,
		Metadata:        string(metadataJSON),
		EmptyTimeout:    s.roomEmptyTimeout(req.Lesson.EstimatedDuration),
		MaxParticipants: MaxLessonParticipants,
	})

	credMetadata, _ := json.Marshal(CredentialMetadata{
		SubjectID:      req.SubjectID,
		LessonID:       req.Lesson.LessonID,
		LanguageCode:   req.Lesson.LanguageCode,
		TargetLanguage: req.Lesson.TargetLanguage,
	})

	cred, err := s.minter.Mint(Identity{
		SubjectID:   req.SubjectID,
		DisplayName: displayName,
		Metadata:    string(credMetadata),
	}, roomName, FullParticipantGrant(), s.tokenTTL)
	if err != nil {
		// Without a credential the operation has produced nothing of value.
		if platformerrors.GetPlatformError(err) != nil {
			return nil, err
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to mint access credential", err)
	}

	record := &Session{
		ID:             sessionID,
		RoomName:       roomName,
		SubjectID:      req.SubjectID,
		LessonID:       req.Lesson.LessonID,
		DisplayName:    displayName,
		State:          StateCreated,
		CreatedAt:      now,
		TokenExpiresAt: cred.ExpiresAt,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to store session", err)
	}
	metrics.RecordSessionCreated()

	s.log.Info().
		Str("session_id", sessionID).
		Str("subject_id", req.SubjectID).
		Str("lesson_id", req.Lesson.LessonID).
		Str("room", roomName).
		Msg("session created")

	return &ConnectionDetails{
		ServerURL:        s.wsURL,
		RoomName:         roomName,
		ParticipantName:  displayName,
		ParticipantToken: cred.Token,
		SessionID:        sessionID,
		TokenExpiresAt:   cred.ExpiresAt,
	}, nil
}

func (s *service) CreateDefaultSession(ctx context.Context) (*ConnectionDetails, error) {
	if err := s.checkConfigured(ctx); err != nil {
		return nil, err
	}

	sessionID, err := idgen.GenerateSessionID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to generate session ID", err)
	}
	guestID, err := idgen.GenerateSecureID("guest", 16)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to generate guest ID", err)
	}

	roomName := fmt.Sprintf("diag-%s", sessionID)

	// No lesson metadata on purpose: this room must never host a real lesson.
	s.provisionRoom(ctx, RoomSpec{
		Name:            roomName,
		EmptyTimeout:    s.emptyTimeoutFloor,
		MaxParticipants: MaxLessonParticipants,
	})

	cred, err := s.minter.Mint(Identity{
		SubjectID:   guestID,
		DisplayName: "Guest",
	}, roomName, FullParticipantGrant(), s.tokenTTL)
	if err != nil {
		if platformerrors.GetPlatformError(err) != nil {
			return nil, err
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to mint access credential", err)
	}

	record := &Session{
		ID:             sessionID,
		RoomName:       roomName,
		SubjectID:      guestID,
		DisplayName:    "Guest",
		State:          StateCreated,
		CreatedAt:      time.Now().UTC(),
		TokenExpiresAt: cred.ExpiresAt,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to store session", err)
	}
	metrics.RecordSessionCreated()

	s.log.Info().
		Str("session_id", sessionID).
		Str("room", roomName).
		Msg("diagnostic session created")

	return &ConnectionDetails{
		ServerURL:        s.wsURL,
		RoomName:         roomName,
		ParticipantName:  "Guest",
		ParticipantToken: cred.Token,
		SessionID:        sessionID,
		TokenExpiresAt:   cred.ExpiresAt,
	}, nil
}

func (s *service) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Copy before enriching; the store owns the record.
	out := *sess
	if s.participants != nil && out.State == StateConnected {
		identities, perr := s.participants.ListParticipants(ctx, out.RoomName)
		if perr != nil {
			// Occupancy is best effort; the record is still served.
			s.log.Warn().Err(perr).
				Str("room", out.RoomName).
				Msg("participant listing failed")
		} else {
			out.Participants = identities
		}
	}
	return &out, nil
}

func (s *service) ListSubjectSessions(ctx context.Context, subjectID string) ([]*Session, error) {
	return s.store.GetBySubject(ctx, subjectID)
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordSessionDeleted()
	s.log.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// provisionRoom ensures the room exists with current metadata. Failures are
// absorbed: credential issuance is the primary deliverable and the first
// participant join implicitly creates the room on most deployments. Total
// failure is still a degraded path and is logged and counted as such.
func (s *service) provisionRoom(ctx context.Context, spec RoomSpec) {
	outcome, err := s.rooms.CreateRoom(ctx, spec)
	metrics.RecordProvisioningOutcome(string(outcome))

	switch outcome {
	case RoomCreated:
		return
	case RoomAlreadyExists:
		// Lost a create race; converge metadata to this attempt.
		if spec.Metadata == "" {
			return
		}
		if uerr := s.rooms.UpdateMetadata(ctx, spec.Name, spec.Metadata); uerr != nil {
			metrics.ProvisioningDegraded.Inc()
			s.log.Warn().Err(uerr).
				Str("room", spec.Name).
				Msg("room metadata update failed, continuing without provisioned metadata")
		}
	case RoomFailed:
		metrics.ProvisioningDegraded.Inc()
		s.log.Warn().Err(err).
			Str("room", spec.Name).
			Msg("room creation failed, continuing without provisioned room")
	}
}

func (s *service) roomEmptyTimeout(estimatedMinutes int) time.Duration {
	timeout := s.emptyTimeoutFloor
	if estimatedMinutes > 0 {
		if est := time.Duration(estimatedMinutes)*time.Minute + s.emptyTimeoutBuffer; est > timeout {
			timeout = est
		}
	}
	return timeout
}

func (s *service) checkConfigured(ctx context.Context) error {
	if s.wsURL == "" || s.minter == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConfiguration, "media transport endpoint is not configured", nil)
	}
	return nil
}
