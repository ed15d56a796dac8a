package responses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lingua-server/session-api/internal/infrastructure/store"
	"lingua-server/session-api/internal/utils/platformerrors"
)

// HandleError handles errors and writes appropriate HTTP responses.
// It maps store-specific errors and platform errors to HTTP status codes.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if errors.Is(err, store.ErrSessionNotFound) {
		platformerrors.WriteNotFound(c, message)
		return
	}
	if errors.Is(err, store.ErrSessionAlreadyExists) || errors.Is(err, store.ErrRoomAlreadyExists) {
		platformerrors.WriteConflict(c, message)
		return
	}

	platformerrors.WriteError(c, err, logger)
}

// HandleNewError creates and writes a new typed error response.
// Use this for route-level errors like validation or authorization failures.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, nil)
	logger := log.With().Str("path", c.Request.URL.Path).Logger()
	platformerrors.WriteHTTPError(c, perr, logger)
}

// SuppressCaching marks a response as non-cacheable at every layer. Bodies
// carrying access credentials must never be served from a cache.
func SuppressCaching(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
