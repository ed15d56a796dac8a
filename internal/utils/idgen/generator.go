package idgen

import (
	"crypto/rand"
	"fmt"
	"time"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// Session ID layout: a 13-digit millisecond timestamp followed by a
// fixed-length random suffix.
const (
	sessionTimestampDigits = 13
	sessionSuffixLength    = 12
)

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	suffix, err := randomSuffix(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, suffix), nil
}

// GenerateSessionID generates a session identifier combining a millisecond
// timestamp with a crypto-random suffix. The timestamp keeps identifiers
// roughly sortable for debugging; uniqueness rests on the random component,
// not on the clock, so concurrent calls in the same millisecond are safe.
func GenerateSessionID() (string, error) {
	suffix, err := randomSuffix(sessionSuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), suffix), nil
}

// ValidateSessionID checks that an ID matches the generated session ID
// layout: timestamp digits followed by an alphanumeric suffix. A malformed
// ID can be rejected without a store lookup.
func ValidateSessionID(id string) bool {
	if len(id) != sessionTimestampDigits+sessionSuffixLength {
		return false
	}
	for i, char := range id {
		if i < sessionTimestampDigits {
			if char < '0' || char > '9' {
				return false
			}
			continue
		}
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

func randomSuffix(length int) (string, error) {
	// Use larger byte array for better entropy
	bytes := make([]byte, length*2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36] // 36 = len(charset)
	}
	return string(encoded), nil
}
