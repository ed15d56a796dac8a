package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ConnectionDetails is the bundle returned by the session API. Each fetch
// yields a fresh bundle; bundles are single-use.
type ConnectionDetails struct {
	ServerURL        string `json:"serverUrl"`
	RoomName         string `json:"roomName"`
	ParticipantName  string `json:"participantName"`
	ParticipantToken string `json:"participantToken"`
	SessionID        string `json:"sessionId"`
}

// LessonContext mirrors the lesson payload the session API expects.
type LessonContext struct {
	LessonID          string   `json:"lessonId"`
	CourseID          string   `json:"courseId"`
	Title             string   `json:"title"`
	TargetLanguage    string   `json:"targetLanguage"`
	LanguageCode      string   `json:"languageCode"`
	Content           string   `json:"content"`
	Objectives        []string `json:"objectives"`
	Vocabulary        []string `json:"vocabulary"`
	Grammar           []string `json:"grammar,omitempty"`
	NativeLanguage    string   `json:"nativeLanguage"`
	EstimatedDuration int      `json:"estimatedDuration,omitempty"`
}

// ConnectionDetailsRequest is the request body for a lesson session.
type ConnectionDetailsRequest struct {
	SubjectID     string         `json:"subjectId"`
	DisplayName   string         `json:"displayName,omitempty"`
	LessonContext *LessonContext `json:"lessonContext"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// Client fetches connection details from the session API.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAuthToken sets the bearer token sent on every request.
func WithAuthToken(token string) ClientOption {
	return func(c *Client) { c.authToken = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a session API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchConnectionDetails requests a lesson session.
func (c *Client) FetchConnectionDetails(ctx context.Context, req *ConnectionDetailsRequest) (*ConnectionDetails, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/v1/connection-details", bytes.NewReader(body))
}

// FetchDefaultConnectionDetails requests a diagnostic session.
func (c *Client) FetchDefaultConnectionDetails(ctx context.Context) (*ConnectionDetails, error) {
	return c.do(ctx, http.MethodGet, "/v1/connection-details", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*ConnectionDetails, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch connection details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("session api: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return nil, fmt.Errorf("session api: unexpected status %d", resp.StatusCode)
	}

	var details ConnectionDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decode connection details: %w", err)
	}
	return &details, nil
}
