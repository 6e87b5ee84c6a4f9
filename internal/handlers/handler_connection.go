package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

// connectionHandler handles HTTP requests for bank submission channels.
type connectionHandler struct {
	connectionService portssvc.ConnectionSvcFacade
}

func newConnectionHandler(cs portssvc.ConnectionSvcFacade) *connectionHandler {
	return &connectionHandler{connectionService: cs}
}

// registerConnectionRoutes registers routes related to bank connections.
func registerConnectionRoutes(rg *gin.RouterGroup, cs portssvc.ConnectionSvcFacade) {
	h := newConnectionHandler(cs)

	connections := rg.Group("/connections")
	{
		connections.POST("", h.createConnection)
		connections.GET("", h.listConnections)
		connections.GET("/:id", h.getConnection)
		connections.POST("/:id/activate", h.activateConnection)
		connections.POST("/:id/suspend", h.suspendConnection)
		connections.POST("/:id/test", h.testConnection)
	}
}

// createConnection godoc
// @Summary Create a bank submission channel
// @Tags connections
// @Accept  json
// @Produce  json
// @Param   connection body dto.CreateConnectionRequest true "Connection details"
// @Success 201 {object} domain.BankConnection
// @Failure 400 {object} map[string]string "Bank does not accept WPS files"
// @Security BearerAuth
// @Router /connections [post]
func (h *connectionHandler) createConnection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.connectionService.CreateConnection(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create connection", slog.String("bank_id", req.BankID), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create connection")
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// listConnections godoc
// @Summary List bank connections
// @Tags connections
// @Produce  json
// @Success 200 {array} domain.BankConnection
// @Security BearerAuth
// @Router /connections [get]
func (h *connectionHandler) listConnections(c *gin.Context) {
	conns, err := h.connectionService.ListConnections(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list connections")
		return
	}
	c.JSON(http.StatusOK, conns)
}

// getConnection godoc
// @Summary Get a bank connection
// @Tags connections
// @Produce  json
// @Param   id path string true "Connection ID"
// @Success 200 {object} domain.BankConnection
// @Failure 404 {object} map[string]string "Connection not found"
// @Security BearerAuth
// @Router /connections/{id} [get]
func (h *connectionHandler) getConnection(c *gin.Context) {
	conn, err := h.connectionService.GetConnection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve connection")
		return
	}
	c.JSON(http.StatusOK, conn)
}

// activateConnection godoc
// @Summary Activate a connection
// @Description Requires an endpoint and credentials suitable for the protocol
// @Tags connections
// @Produce  json
// @Param   id path string true "Connection ID"
// @Success 204
// @Failure 400 {object} map[string]string "Connection not activatable"
// @Security BearerAuth
// @Router /connections/{id}/activate [post]
func (h *connectionHandler) activateConnection(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.connectionService.ActivateConnection(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, err, "Failed to activate connection")
		return
	}
	c.Status(http.StatusNoContent)
}

// suspendConnection godoc
// @Summary Suspend an active connection
// @Tags connections
// @Produce  json
// @Param   id path string true "Connection ID"
// @Success 204
// @Security BearerAuth
// @Router /connections/{id}/suspend [post]
func (h *connectionHandler) suspendConnection(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.connectionService.SuspendConnection(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, err, "Failed to suspend connection")
		return
	}
	c.Status(http.StatusNoContent)
}

// testConnection godoc
// @Summary Test a connection against its bank endpoint
// @Description Records the outcome on the connection whether it passes or fails
// @Tags connections
// @Produce  json
// @Param   id path string true "Connection ID"
// @Success 200 {object} dto.TestConnectionResponse
// @Security BearerAuth
// @Router /connections/{id}/test [post]
func (h *connectionHandler) testConnection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.connectionService.TestConnection(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		logger.Warn("Failed to test connection", slog.String("connection_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to test connection")
		return
	}
	c.JSON(http.StatusOK, result)
}
