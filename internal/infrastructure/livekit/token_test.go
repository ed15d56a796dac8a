package livekit

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lingua-server/session-api/internal/config"
	"lingua-server/session-api/internal/domain/session"
	"lingua-server/session-api/internal/utils/platformerrors"
)

const (
	testAPIKey    = "devkey"
	testAPISecret = "devsecret-devsecret-devsecret-32"
)

func newTestMinter() *TokenMinter {
	return NewTokenMinter(&config.Config{
		LiveKitAPIKey:    testAPIKey,
		LiveKitAPISecret: testAPISecret,
	})
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		return []byte(testAPISecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("minted token claims are not a map")
	}
	return claims
}

func TestMint(t *testing.T) {
	m := newTestMinter()

	cred, err := m.Mint(session.Identity{
		SubjectID:   "u1",
		DisplayName: "Alice",
		Metadata:    `{"lessonId":"l1"}`,
	}, "lesson-u1-l1-abc", session.FullParticipantGrant(), 15*time.Minute)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if cred.Room != "lesson-u1-l1-abc" || cred.Identity != "u1" {
		t.Errorf("credential bookkeeping = %+v", cred)
	}

	claims := parseClaims(t, cred.Token)

	if claims["iss"] != testAPIKey {
		t.Errorf("iss = %v, want %v", claims["iss"], testAPIKey)
	}
	if claims["sub"] != "u1" {
		t.Errorf("sub = %v, want u1", claims["sub"])
	}

	video, ok := claims["video"].(map[string]any)
	if !ok {
		t.Fatal("video grant missing from claims")
	}
	if video["room"] != "lesson-u1-l1-abc" {
		t.Errorf("video.room = %v, want lesson-u1-l1-abc", video["room"])
	}
	for _, cap := range []string{"roomJoin", "canPublish", "canSubscribe", "canPublishData", "canUpdateOwnMetadata"} {
		if v, _ := video[cap].(bool); !v {
			t.Errorf("video.%s = %v, want true", cap, video[cap])
		}
	}
}

func TestMint_TokenScopedToSingleRoom(t *testing.T) {
	m := newTestMinter()

	credA, err := m.Mint(session.Identity{SubjectID: "u1"}, "room-a", session.FullParticipantGrant(), 15*time.Minute)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	credB, err := m.Mint(session.Identity{SubjectID: "u1"}, "room-b", session.FullParticipantGrant(), 15*time.Minute)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	videoA := parseClaims(t, credA.Token)["video"].(map[string]any)
	videoB := parseClaims(t, credB.Token)["video"].(map[string]any)
	if videoA["room"] == videoB["room"] {
		t.Error("tokens for different rooms carry the same room grant")
	}
}

func TestMint_Expiry(t *testing.T) {
	m := newTestMinter()
	ttl := 12 * time.Minute

	before := time.Now()
	cred, err := m.Mint(session.Identity{SubjectID: "u1"}, "room-a", session.FullParticipantGrant(), ttl)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	claims := parseClaims(t, cred.Token)
	expFloat, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("exp claim missing")
	}
	exp := time.Unix(int64(expFloat), 0)

	// exp must land at roughly now+ttl, with slack for the mint itself.
	lo := before.Add(ttl - time.Minute)
	hi := before.Add(ttl + time.Minute)
	if exp.Before(lo) || exp.After(hi) {
		t.Errorf("exp = %v, want within [%v, %v]", exp, lo, hi)
	}

	if cred.ExpiresAt.Before(lo) || cred.ExpiresAt.After(hi) {
		t.Errorf("credential ExpiresAt = %v, want within [%v, %v]", cred.ExpiresAt, lo, hi)
	}
}

func TestMint_MissingCredentials(t *testing.T) {
	m := NewTokenMinter(&config.Config{})

	_, err := m.Mint(session.Identity{SubjectID: "u1"}, "room-a", session.FullParticipantGrant(), 15*time.Minute)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
