package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainsession "lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/interfaces/httpserver/handlers"
	"lingua-server/session-api/internal/utils/platformerrors"
)

type fakeService struct {
	createErr  error
	defaultErr error
	sessions   map[string]*domainsession.Session
	deleted    []string
}

func (f *fakeService) CreateSession(ctx context.Context, req *domainsession.SessionRequest) (*domainsession.ConnectionDetails, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if req == nil || req.SubjectID == "" || req.Lesson == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing subjectId or lessonContext", nil)
	}
	return &domainsession.ConnectionDetails{
		ServerURL:        "ws://localhost:7880",
		RoomName:         "lesson-" + req.SubjectID + "-" + req.Lesson.LessonID + "-abc123",
		ParticipantName:  req.DisplayName,
		ParticipantToken: "jwt-token",
		SessionID:        "abc123",
		TokenExpiresAt:   time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeService) CreateDefaultSession(ctx context.Context) (*domainsession.ConnectionDetails, error) {
	if f.defaultErr != nil {
		return nil, f.defaultErr
	}
	return &domainsession.ConnectionDetails{
		ServerURL:        "ws://localhost:7880",
		RoomName:         "diag-xyz789",
		ParticipantName:  "Guest",
		ParticipantToken: "jwt-token",
		SessionID:        "xyz789",
	}, nil
}

func (f *fakeService) GetSession(_ context.Context, id string) (*domainsession.Session, error) {
	if sess, ok := f.sessions[id]; ok {
		return sess, nil
	}
	return nil, platformerrors.NewError(nil, platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound, "session not found", nil)
}

func (f *fakeService) ListSubjectSessions(_ context.Context, subjectID string) ([]*domainsession.Session, error) {
	var out []*domainsession.Session
	for _, s := range f.sessions {
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeService) DeleteSession(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestRouter(svc domainsession.Service, subjectID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/v1")
	if subjectID != "" {
		group.Use(func(c *gin.Context) {
			c.Set("subject_id", subjectID)
			c.Next()
		})
	}
	RegisterSessionRoutes(group, handlers.NewSessionHandler(svc))
	return engine
}

// Well-formed session IDs: 13 timestamp digits plus a 12-char suffix.
const (
	testSessionID  = "1756700000000a3f8d2k9p1m4"
	otherSessionID = "1756700000001b4g9e3l0q2n5"
)

const validBody = `{
	"subjectId": "u1",
	"displayName": "Alice",
	"lessonContext": {
		"lessonId": "l1",
		"title": "Greetings",
		"targetLanguage": "French",
		"languageCode": "fr",
		"content": "bonjour",
		"objectives": ["greet"],
		"vocabulary": ["bonjour"],
		"nativeLanguage": "English"
	}
}`

func TestCreateConnectionDetails(t *testing.T) {
	router := newTestRouter(&fakeService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/connection-details", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	for _, key := range []string{"serverUrl", "roomName", "participantName", "participantToken", "sessionId"} {
		if v, ok := resp[key].(string); !ok || v == "" {
			t.Errorf("response missing %q", key)
		}
	}
	if !strings.Contains(resp["roomName"].(string), "u1") || !strings.Contains(resp["roomName"].(string), "l1") {
		t.Errorf("room name %q does not embed subject and lesson", resp["roomName"])
	}

	// Credential-bearing responses must not be cacheable.
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if pragma := w.Header().Get("Pragma"); pragma != "no-cache" {
		t.Errorf("Pragma = %q, want no-cache", pragma)
	}
	if expires := w.Header().Get("Expires"); expires != "0" {
		t.Errorf("Expires = %q, want 0", expires)
	}
}

func TestCreateConnectionDetails_InvalidBody(t *testing.T) {
	router := newTestRouter(&fakeService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/connection-details", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if resp.Error.Type != "validation_error" {
		t.Errorf("error type = %q, want validation_error", resp.Error.Type)
	}
}

func TestCreateConnectionDetails_MissingFields(t *testing.T) {
	router := newTestRouter(&fakeService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/connection-details", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateConnectionDetails_ConfigurationErrorIsGeneric(t *testing.T) {
	svc := &fakeService{
		createErr: platformerrors.NewError(nil, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConfiguration, "media transport endpoint is not configured", nil),
	}
	router := newTestRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/connection-details", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	// The configuration detail stays in the logs, not the response body.
	if resp.Error.Message != "service is not configured" {
		t.Errorf("message = %q, want generic body", resp.Error.Message)
	}
	if strings.Contains(w.Body.String(), "endpoint") {
		t.Errorf("response leaks configuration detail: %s", w.Body.String())
	}
}

func TestCreateDefaultConnectionDetails(t *testing.T) {
	router := newTestRouter(&fakeService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/connection-details", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if room, _ := resp["roomName"].(string); !strings.HasPrefix(room, "diag-") {
		t.Errorf("room name = %q, want diag- prefix", room)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestGetSession_OwnershipEnforced(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{
		testSessionID: {ID: testSessionID, RoomName: "room-a", SubjectID: "u1", State: domainsession.StateCreated},
	}}
	router := newTestRouter(svc, "u2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+testSessionID, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGetSession(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{
		testSessionID: {ID: testSessionID, RoomName: "room-a", SubjectID: "u1", State: domainsession.StateCreated},
	}}
	router := newTestRouter(svc, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+testSessionID, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "jwt") || strings.Contains(w.Body.String(), "token\":") {
		t.Errorf("session response must not carry a token: %s", w.Body.String())
	}
}

func TestGetSession_ReportsParticipants(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{
		testSessionID: {
			ID:           testSessionID,
			RoomName:     "room-a",
			SubjectID:    "u1",
			State:        domainsession.StateConnected,
			Participants: []string{"u1", "tutor-agent"},
		},
	}}
	router := newTestRouter(svc, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+testSessionID, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Participants []string `json:"participants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Participants) != 2 || resp.Participants[1] != "tutor-agent" {
		t.Errorf("participants = %v", resp.Participants)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	router := newTestRouter(&fakeService{sessions: map[string]*domainsession.Session{}}, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+otherSessionID, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSessionRoutes_MalformedID(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{}}
	router := newTestRouter(svc, "u1")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/v1/sessions/not-a-session-id", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", method, w.Code)
		}
		var resp struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid error JSON: %v", err)
		}
		if resp.Error.Type != "validation_error" {
			t.Errorf("%s error type = %q, want validation_error", method, resp.Error.Type)
		}
	}
	if len(svc.deleted) != 0 {
		t.Errorf("malformed ID reached the service: deleted = %v", svc.deleted)
	}
}

func TestDeleteSession(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{
		testSessionID: {ID: testSessionID, RoomName: "room-a", SubjectID: "u1", State: domainsession.StateCreated},
	}}
	router := newTestRouter(svc, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+testSessionID, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != testSessionID {
		t.Errorf("deleted = %v, want [%s]", svc.deleted, testSessionID)
	}

	var resp struct {
		Deleted bool `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Deleted {
		t.Errorf("delete response = %s", w.Body.String())
	}
}

func TestListSessions(t *testing.T) {
	svc := &fakeService{sessions: map[string]*domainsession.Session{
		"s1": {ID: "s1", RoomName: "room-a", SubjectID: "u1"},
		"s2": {ID: "s2", RoomName: "room-b", SubjectID: "u2"},
	}}
	router := newTestRouter(svc, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "s1" {
		t.Errorf("data = %+v, want only u1's session", resp.Data)
	}
}
