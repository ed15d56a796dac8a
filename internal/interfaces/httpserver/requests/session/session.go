// Package session contains HTTP request DTOs for session endpoints.
package session

import (
	"lingua-server/session-api/internal/domain/lesson"
	domainsession "lingua-server/session-api/internal/domain/session"
)

// ConnectionDetailsRequest is the request body for creating a lesson session.
// SubjectID and LessonContext are required; DisplayName is optional.
type ConnectionDetailsRequest struct {
	SubjectID     string          `json:"subjectId"`
	DisplayName   string          `json:"displayName,omitempty"`
	LessonContext *lesson.Context `json:"lessonContext"`
}

// ToDomain converts the request DTO to a domain session request.
func (r *ConnectionDetailsRequest) ToDomain() *domainsession.SessionRequest {
	return &domainsession.SessionRequest{
		SubjectID:   r.SubjectID,
		DisplayName: r.DisplayName,
		Lesson:      r.LessonContext,
	}
}
