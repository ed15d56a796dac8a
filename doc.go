// Package sessionapi implements the session-api service which brokers
// live lesson sessions on top of LiveKit.
//
// The service provides:
//   - Connection details issuance with room-scoped LiveKit tokens
//   - Lesson room provisioning with metadata for the tutor agent
//   - Session lifecycle tracking (create, get, list, delete)
//   - Room synchronization via polling
//   - JWT authentication via Keycloak
//   - Optional API key authentication via an API gateway
//
// For more information, see the README.md file.
package sessionapi
