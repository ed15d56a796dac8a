package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lingua-server/session-api/internal/config"
)

// Validator validates bearer JWTs against the configured identity provider.
type Validator struct {
	cfg      *config.Config
	log      zerolog.Logger
	keycloak *KeycloakValidator
}

// NewValidator initializes the JWKS-backed validator when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	keycloak, err := NewKeycloakValidator(
		ctx,
		cfg.AuthJWKSURL,
		cfg.AuthIssuer,
		cfg.AuthAudience,
		"", // authorizedParty - not required
		5*time.Minute,
		time.Minute,
		log,
	)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:      cfg,
		log:      log,
		keycloak: keycloak,
	}, nil
}

// Ready reports whether the validator can serve requests.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.keycloak.Ready()
}

// Middleware enforces bearer auth when enabled.
// Supports:
// 1. Gateway-injected identity headers (API key already validated upstream)
// 2. JWT bearer tokens (validated against JWKS)
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if subjectID := v.extractGatewaySubject(c); subjectID != "" {
			c.Set("subject_id", subjectID)
			c.Next()
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := v.keycloak.Validate(c.Request.Context(), tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("jwt validation failed")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set("subject_id", claims.Subject)
		c.Set("principal_claims", claims)
		c.Next()
	}
}

// extractGatewaySubject reads identity headers injected by the API gateway
// after it validated an API key. The credential identifier guards against
// anonymous consumer fallback.
func (v *Validator) extractGatewaySubject(c *gin.Context) string {
	if subjectID := strings.TrimSpace(c.GetHeader("X-User-ID")); subjectID != "" {
		return subjectID
	}
	if subject := strings.TrimSpace(c.GetHeader("X-User-Subject")); subject != "" {
		return subject
	}

	if credID := strings.TrimSpace(c.GetHeader("X-Credential-Identifier")); credID != "" {
		if customID := strings.TrimSpace(c.GetHeader("X-Consumer-Custom-ID")); customID != "" {
			return customID
		}
		if consumerID := strings.TrimSpace(c.GetHeader("X-Consumer-ID")); consumerID != "" {
			return consumerID
		}
	}

	return ""
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
