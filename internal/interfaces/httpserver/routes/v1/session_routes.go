package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lingua-server/session-api/internal/interfaces/httpserver/handlers"
	sessionreq "lingua-server/session-api/internal/interfaces/httpserver/requests/session"
	"lingua-server/session-api/internal/interfaces/httpserver/responses"
	sessionres "lingua-server/session-api/internal/interfaces/httpserver/responses/session"
	"lingua-server/session-api/internal/utils/idgen"
	"lingua-server/session-api/internal/utils/platformerrors"
)

// RegisterSessionRoutes registers the connection-details and session routes.
func RegisterSessionRoutes(router gin.IRoutes, handler *handlers.SessionHandler) {
	// Connection details endpoints
	router.POST("/connection-details", createConnectionDetails(handler))
	router.GET("/connection-details", createDefaultConnectionDetails(handler))

	// Session inspection endpoints
	router.GET("/sessions", listSessions(handler))
	router.GET("/sessions/:id", getSession(handler))
	router.DELETE("/sessions/:id", deleteSession(handler))
}

// createConnectionDetails godoc
// @Summary      Create lesson connection details
// @Description  Provisions a lesson room and mints a fresh room-scoped token. Every call returns a new session.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request body sessionreq.ConnectionDetailsRequest true "Lesson session request"
// @Success      200 {object} sessionres.ConnectionDetailsResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /connection-details [post]
func createConnectionDetails(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionreq.ConnectionDetailsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}

		if req.SubjectID == "" {
			req.SubjectID = extractSubjectID(c)
		}

		details, err := handler.CreateSession(c.Request.Context(), req.ToDomain())
		if err != nil {
			responses.HandleError(c, err, "failed to create session")
			return
		}

		responses.SuppressCaching(c)
		c.JSON(http.StatusOK, sessionres.NewConnectionDetailsResponse(details))
	}
}

// createDefaultConnectionDetails godoc
// @Summary      Create diagnostic connection details
// @Description  Mints connection details for a diagnostic room with no lesson attached.
// @Tags         Sessions
// @Produce      json
// @Success      200 {object} sessionres.ConnectionDetailsResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /connection-details [get]
func createDefaultConnectionDetails(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := handler.CreateDefaultSession(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to create diagnostic session")
			return
		}

		responses.SuppressCaching(c)
		c.JSON(http.StatusOK, sessionres.NewConnectionDetailsResponse(details))
	}
}

// listSessions godoc
// @Summary      List tracked sessions
// @Description  Lists tracked sessions for the current subject.
// @Tags         Sessions
// @Produce      json
// @Success      200 {object} sessionres.ListSessionsResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /sessions [get]
func listSessions(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectID := extractSubjectID(c)

		sessions, err := handler.ListSubjectSessions(c.Request.Context(), subjectID)
		if err != nil {
			responses.HandleError(c, err, "failed to list sessions")
			return
		}

		c.JSON(http.StatusOK, sessionres.NewListSessionsResponse(sessions))
	}
}

// getSession godoc
// @Summary      Get a tracked session
// @Description  Retrieves a session by ID. Subjects can only access their own sessions.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.SessionResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /sessions/{id} [get]
func getSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !idgen.ValidateSessionID(id) {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid session id")
			return
		}
		subjectID := extractSubjectID(c)

		sess, err := handler.GetSession(c.Request.Context(), id)
		if err != nil {
			responses.HandleError(c, err, "failed to get session")
			return
		}

		if subjectID != "anonymous" && sess.SubjectID != subjectID {
			responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "access denied")
			return
		}

		c.JSON(http.StatusOK, sessionres.NewSessionResponse(sess))
	}
}

// deleteSession godoc
// @Summary      Delete a tracked session
// @Description  Removes a session record. Subjects can only delete their own sessions.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.DeleteSessionResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /sessions/{id} [delete]
func deleteSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !idgen.ValidateSessionID(id) {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid session id")
			return
		}
		subjectID := extractSubjectID(c)

		sess, err := handler.GetSession(c.Request.Context(), id)
		if err != nil {
			responses.HandleError(c, err, "failed to get session")
			return
		}

		if subjectID != "anonymous" && sess.SubjectID != subjectID {
			responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "access denied")
			return
		}

		if err := handler.DeleteSession(c.Request.Context(), id); err != nil {
			responses.HandleError(c, err, "failed to delete session")
			return
		}

		c.JSON(http.StatusOK, sessionres.NewDeleteSessionResponse(id))
	}
}

func extractSubjectID(c *gin.Context) string {
	if subjectID, exists := c.Get("subject_id"); exists {
		if id, ok := subjectID.(string); ok && id != "" {
			return id
		}
	}
	return "anonymous"
}
