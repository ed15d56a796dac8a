package handlers

import (
	"context"

	"lingua-server/session-api/internal/domain/session"
)

// SessionHandler handles session-related HTTP requests.
type SessionHandler struct {
	service session.Service
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service session.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession provisions a lesson room and returns connection details.
func (h *SessionHandler) CreateSession(ctx context.Context, req *session.SessionRequest) (*session.ConnectionDetails, error) {
	return h.service.CreateSession(ctx, req)
}

// CreateDefaultSession returns connection details for a diagnostic room.
func (h *SessionHandler) CreateDefaultSession(ctx context.Context) (*session.ConnectionDetails, error) {
	return h.service.CreateDefaultSession(ctx)
}

// GetSession retrieves a session by ID.
func (h *SessionHandler) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return h.service.GetSession(ctx, id)
}

// ListSubjectSessions retrieves all sessions for a subject.
func (h *SessionHandler) ListSubjectSessions(ctx context.Context, subjectID string) ([]*session.Session, error) {
	return h.service.ListSubjectSessions(ctx, subjectID)
}

// DeleteSession removes a session.
func (h *SessionHandler) DeleteSession(ctx context.Context, id string) error {
	return h.service.DeleteSession(ctx, id)
}
