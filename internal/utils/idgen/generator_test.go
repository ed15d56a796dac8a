package idgen

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantPrefix string
	}{
		{
			name:       "generate guest ID",
			prefix:     "guest",
			length:     16,
			wantPrefix: "guest_",
		},
		{
			name:       "generate short ID",
			prefix:     "test",
			length:     8,
			wantPrefix: "test_",
		},
		{
			name:       "generate long ID",
			prefix:     "test",
			length:     32,
			wantPrefix: "test_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSecureID(tt.prefix, tt.length)
			if err != nil {
				t.Fatalf("GenerateSecureID() error = %v", err)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateSecureID() = %v, want prefix %v", got, tt.wantPrefix)
			}
			expectedLen := len(tt.prefix) + 1 + tt.length
			if len(got) != expectedLen {
				t.Errorf("GenerateSecureID() length = %v, want %v", len(got), expectedLen)
			}
			suffix := got[len(tt.prefix)+1:]
			for _, char := range suffix {
				if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
					t.Errorf("GenerateSecureID() contains invalid character: %c", char)
				}
			}
		})
	}
}

func TestGenerateSessionID(t *testing.T) {
	before := time.Now().UnixMilli()
	id, err := GenerateSessionID()
	after := time.Now().UnixMilli()
	if err != nil {
		t.Fatalf("GenerateSessionID() error = %v", err)
	}

	// Leading millisecond timestamp followed by a 12-char random suffix.
	if len(id) < 13+12 {
		t.Fatalf("GenerateSessionID() too short: %q", id)
	}

	tsPart := id[:len(id)-12]
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		t.Fatalf("GenerateSessionID() timestamp part not numeric: %q", tsPart)
	}
	if ts < before || ts > after {
		t.Errorf("GenerateSessionID() timestamp %d outside [%d, %d]", ts, before, after)
	}

	suffix := id[len(id)-12:]
	for _, char := range suffix {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			t.Errorf("GenerateSessionID() suffix contains invalid character: %c", char)
		}
	}
}

func TestGenerateSessionID_Uniqueness(t *testing.T) {
	const iterations = 10000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id, err := GenerateSessionID()
		if err != nil {
			t.Fatalf("GenerateSessionID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("GenerateSessionID() generated duplicate ID: %v", id)
		}
		seen[id] = true
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{
			name: "valid session ID",
			id:   "1756700000000a3f8d2k9p1m4",
			want: true,
		},
		{
			name: "too short",
			id:   "1756700000000a3f",
			want: false,
		},
		{
			name: "too long",
			id:   "1756700000000a3f8d2k9p1m4xx",
			want: false,
		},
		{
			name: "non-numeric timestamp",
			id:   "17567x0000000a3f8d2k9p1m4",
			want: false,
		},
		{
			name: "uppercase suffix",
			id:   "1756700000000A3F8D2K9P1M4",
			want: false,
		},
		{
			name: "path traversal attempt",
			id:   "../../etc/passwd",
			want: false,
		},
		{
			name: "empty ID",
			id:   "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSessionID(tt.id); got != tt.want {
				t.Errorf("ValidateSessionID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateSessionID_AcceptsGenerated(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := GenerateSessionID()
		if err != nil {
			t.Fatalf("GenerateSessionID() error = %v", err)
		}
		if !ValidateSessionID(id) {
			t.Fatalf("ValidateSessionID rejected generated ID %q", id)
		}
	}
}
