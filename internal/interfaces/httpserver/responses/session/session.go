// Package sessionres contains HTTP response DTOs for session endpoints.
package sessionres

import (
	domainsession "lingua-server/session-api/internal/domain/session"
)

// ConnectionDetailsResponse is the one-shot connection bundle returned to
// clients. A fresh bundle is minted for every request.
type ConnectionDetailsResponse struct {
	ServerURL        string `json:"serverUrl"`
	RoomName         string `json:"roomName"`
	ParticipantName  string `json:"participantName"`
	ParticipantToken string `json:"participantToken"`
	SessionID        string `json:"sessionId"`
}

// NewConnectionDetailsResponse creates a response from domain connection details.
func NewConnectionDetailsResponse(details *domainsession.ConnectionDetails) *ConnectionDetailsResponse {
	return &ConnectionDetailsResponse{
		ServerURL:        details.ServerURL,
		RoomName:         details.RoomName,
		ParticipantName:  details.ParticipantName,
		ParticipantToken: details.ParticipantToken,
		SessionID:        details.SessionID,
	}
}

// SessionResponse represents a tracked session in API responses.
// Never includes the participant token.
type SessionResponse struct {
	ID             string   `json:"id"`
	Object         string   `json:"object"`
	RoomName       string   `json:"room_name"`
	SubjectID      string   `json:"subject_id"`
	LessonID       string   `json:"lesson_id,omitempty"`
	State          string   `json:"state"`
	CreatedAt      int64    `json:"created_at"`
	TokenExpiresAt int64    `json:"token_expires_at"`
	Participants   []string `json:"participants,omitempty"`
}

// ListSessionsResponse represents the response for listing sessions.
type ListSessionsResponse struct {
	Object string             `json:"object"`
	Data   []*SessionResponse `json:"data"`
}

// DeleteSessionResponse represents the response for deleting a session.
type DeleteSessionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewSessionResponse creates a SessionResponse from a domain Session.
func NewSessionResponse(sess *domainsession.Session) *SessionResponse {
	return &SessionResponse{
		ID:             sess.ID,
		Object:         "lesson.session",
		RoomName:       sess.RoomName,
		SubjectID:      sess.SubjectID,
		LessonID:       sess.LessonID,
		State:          string(sess.State),
		CreatedAt:      sess.CreatedAt.Unix(),
		TokenExpiresAt: sess.TokenExpiresAt.Unix(),
		Participants:   sess.Participants,
	}
}

// NewListSessionsResponse creates a ListSessionsResponse from domain Sessions.
func NewListSessionsResponse(sessions []*domainsession.Session) *ListSessionsResponse {
	data := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		data[i] = NewSessionResponse(s)
	}

	return &ListSessionsResponse{
		Object: "list",
		Data:   data,
	}
}

// NewDeleteSessionResponse creates a DeleteSessionResponse.
func NewDeleteSessionResponse(id string) *DeleteSessionResponse {
	return &DeleteSessionResponse{
		ID:      id,
		Object:  "lesson.session.deleted",
		Deleted: true,
	}
}
