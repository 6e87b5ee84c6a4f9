package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

// submissionHandler handles HTTP requests for individual submissions.
type submissionHandler struct {
	submissionService portssvc.SubmissionSvcFacade
}

func newSubmissionHandler(ss portssvc.SubmissionSvcFacade) *submissionHandler {
	return &submissionHandler{submissionService: ss}
}

// registerSubmissionRoutes registers routes related to submissions.
func registerSubmissionRoutes(rg *gin.RouterGroup, ss portssvc.SubmissionSvcFacade) {
	h := newSubmissionHandler(ss)

	submissions := rg.Group("/submissions")
	{
		submissions.GET("/:id", h.getSubmission)
		submissions.POST("/:id/retry", h.retrySubmission)
		submissions.POST("/:id/check-status", h.checkStatus)
		submissions.POST("/:id/cancel", h.cancelSubmission)
	}
}

// getSubmission godoc
// @Summary Get a submission
// @Tags submissions
// @Produce  json
// @Param   id path string true "Submission ID"
// @Success 200 {object} domain.Submission
// @Failure 404 {object} map[string]string "Submission not found"
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (h *submissionHandler) getSubmission(c *gin.Context) {
	sub, err := h.submissionService.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve submission")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// retrySubmission godoc
// @Summary Retry a failed submission attempt
// @Description Re-transmits a draft submission that failed a prior attempt; the retry budget is finite
// @Tags submissions
// @Produce  json
// @Param   id path string true "Submission ID"
// @Success 200 {object} domain.Submission
// @Failure 400 {object} map[string]string "Retry budget exhausted or submission not retryable"
// @Security BearerAuth
// @Router /submissions/{id}/retry [post]
func (h *submissionHandler) retrySubmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.submissionService.Retry(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		logger.Warn("Failed to retry submission", slog.String("submission_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to retry submission")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// checkStatus godoc
// @Summary Poll the bank for a processing submission
// @Tags submissions
// @Produce  json
// @Param   id path string true "Submission ID"
// @Success 200 {object} domain.Submission
// @Security BearerAuth
// @Router /submissions/{id}/check-status [post]
func (h *submissionHandler) checkStatus(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.submissionService.CheckStatus(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to check submission status")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// cancelSubmission godoc
// @Summary Cancel a non-terminal submission
// @Tags submissions
// @Produce  json
// @Param   id path string true "Submission ID"
// @Success 204
// @Security BearerAuth
// @Router /submissions/{id}/cancel [post]
func (h *submissionHandler) cancelSubmission(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.submissionService.Cancel(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, err, "Failed to cancel submission")
		return
	}
	c.Status(http.StatusNoContent)
}
