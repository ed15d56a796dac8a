package session

import (
	"time"

	"lingua-server/session-api/internal/domain/lesson"
)

// MaxLessonParticipants caps a lesson room at the student and the tutor agent.
const MaxLessonParticipants = 2

// DefaultDisplayName is used when a request does not name the participant.
const DefaultDisplayName = "Student"

// SessionState represents the lifecycle state of a session record.
type SessionState string

const (
	// StateCreated indicates connection details were issued, waiting for the
	// participant to join the room.
	StateCreated SessionState = "created"
	// StateConnected indicates the participant has joined the room.
	StateConnected SessionState = "connected"
)

// SessionRequest is the input for creating a lesson session.
// SubjectID and Lesson must both be present; DisplayName is optional.
type SessionRequest struct {
	SubjectID   string
	DisplayName string
	Lesson      *lesson.Context
}

// RoomMetadata is the serialized snapshot attached to a lesson room. The
// lesson fields are flattened to the top level because the tutor agent reads
// them directly from the room metadata JSON.
type RoomMetadata struct {
	lesson.Context

	SubjectID            string    `json:"subjectId"`
	SessionID            string    `json:"sessionId"`
	CreatedAt            time.Time `json:"createdAt"`
	TeachingMode         string    `json:"teachingMode"`
	TranscriptionEnabled bool      `json:"transcriptionEnabled"`
}

// Identity names the participant a credential is minted for.
type Identity struct {
	SubjectID   string
	DisplayName string
	// Metadata is a JSON snapshot embedded in the credential for the
	// participant's own bookkeeping (subject, lesson, language codes).
	Metadata string
}

// CredentialMetadata is the per-credential metadata embedded in a token.
type CredentialMetadata struct {
	SubjectID      string `json:"subjectId"`
	LessonID       string `json:"lessonId,omitempty"`
	LanguageCode   string `json:"languageCode,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// Grant is the set of room capabilities embedded in a credential.
type Grant struct {
	RoomJoin             bool
	CanPublish           bool
	CanPublishData       bool
	CanSubscribe         bool
	CanUpdateOwnMetadata bool
}

// FullParticipantGrant returns the capability set issued to lesson
// participants.
func FullParticipantGrant() Grant {
	return Grant{
		RoomJoin:             true,
		CanPublish:           true,
		CanPublishData:       true,
		CanSubscribe:         true,
		CanUpdateOwnMetadata: true,
	}
}

// AccessCredential is a signed, time-boxed, room-scoped authorization token
// plus its embedded claims for the caller's bookkeeping.
type AccessCredential struct {
	Token     string
	Room      string
	Identity  string
	Grant     Grant
	ExpiresAt time.Time
}

// ConnectionDetails is the one-shot bundle returned to a caller. A new
// request always produces a new bundle; bundles are never mutated after
// issuance.
type ConnectionDetails struct {
	ServerURL        string
	RoomName         string
	ParticipantName  string
	ParticipantToken string
	SessionID        string
	TokenExpiresAt   time.Time
}

// Session is the minimal record correlating a credential with its lesson
// context. It exists for diagnostics and cleanup, not as a ledger.
type Session struct {
	ID             string       `json:"id"`
	RoomName       string       `json:"room_name"`
	SubjectID      string       `json:"subject_id"`
	LessonID       string       `json:"lesson_id,omitempty"`
	DisplayName    string       `json:"display_name,omitempty"`
	State          SessionState `json:"state"`
	CreatedAt      time.Time    `json:"created_at"`
	TokenExpiresAt time.Time    `json:"token_expires_at"`
	// Participants holds live room occupancy, populated on read for
	// connected sessions. It is never persisted.
	Participants []string `json:"participants,omitempty"`
}

// RoomSpec describes the room a provisioner must ensure.
type RoomSpec struct {
	Name            string
	Metadata        string
	EmptyTimeout    time.Duration
	MaxParticipants uint32
}

// EnsureOutcome is the tagged result of a room creation attempt. The caller
// decides whether AlreadyExists routes to a metadata update.
type EnsureOutcome string

const (
	// RoomCreated means the create call succeeded.
	RoomCreated EnsureOutcome = "created"
	// RoomAlreadyExists means the provider reported the name as taken.
	RoomAlreadyExists EnsureOutcome = "already_exists"
	// RoomFailed means the create call failed for any other reason.
	RoomFailed EnsureOutcome = "failed"
)
