package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

// batchHandler handles HTTP requests for WPS batches and their pipeline steps.
type batchHandler struct {
	batchService          portssvc.BatchSvcFacade
	validationService     portssvc.ValidationSvcFacade
	submissionService     portssvc.SubmissionSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newBatchHandler(
	bs portssvc.BatchSvcFacade,
	vs portssvc.ValidationSvcFacade,
	ss portssvc.SubmissionSvcFacade,
	rs portssvc.ReconciliationSvcFacade,
) *batchHandler {
	return &batchHandler{
		batchService:          bs,
		validationService:     vs,
		submissionService:     ss,
		reconciliationService: rs,
	}
}

// registerBatchRoutes registers routes related to WPS batches.
func registerBatchRoutes(
	rg *gin.RouterGroup,
	bs portssvc.BatchSvcFacade,
	vs portssvc.ValidationSvcFacade,
	ss portssvc.SubmissionSvcFacade,
	rs portssvc.ReconciliationSvcFacade,
) {
	h := newBatchHandler(bs, vs, ss, rs)

	batches := rg.Group("/batches")
	{
		batches.POST("", h.createBatch)
		batches.GET("", h.listBatches)
		batches.GET("/:id", h.getBatch)
		batches.POST("/:id/lines", h.assembleLines)
		batches.POST("/:id/validate", h.validateBatch)
		batches.GET("/:id/validations", h.listValidations)
		batches.POST("/:id/generate", h.generateSIF)
		batches.GET("/:id/file", h.downloadSIF)
		batches.POST("/:id/submit", h.submitBatch)
		batches.GET("/:id/submissions", h.listSubmissions)
		batches.POST("/:id/reconcile", h.reconcileBatch)
		batches.GET("/:id/reconciliations", h.listReconciliations)
		batches.POST("/:id/cancel", h.cancelBatch)
		batches.POST("/:id/reset", h.resetBatch)
	}

	rg.GET("/validations/:id", h.getValidationResult)
	rg.GET("/reconciliations/:id", h.getReconciliation)
}

// createBatch godoc
// @Summary Create a new WPS batch
// @Description Creates an empty draft batch for one employer and salary period
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   batch body dto.CreateBatchRequest true "Batch details"
// @Success 201 {object} domain.WpsBatch
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /batches [post]
func (h *batchHandler) createBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.batchService.CreateBatch(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create batch", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create batch")
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// listBatches godoc
// @Summary List WPS batches
// @Tags batches
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.BatchSummaryResponse
// @Security BearerAuth
// @Router /batches [get]
func (h *batchHandler) listBatches(c *gin.Context) {
	var params dto.ListBatchesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	batches, err := h.batchService.ListBatches(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list batches")
		return
	}
	c.JSON(http.StatusOK, batches)
}

// getBatch godoc
// @Summary Get a batch with its lines
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {object} domain.WpsBatch
// @Failure 404 {object} map[string]string "Batch not found"
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *batchHandler) getBatch(c *gin.Context) {
	batch, err := h.batchService.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve batch")
		return
	}
	c.JSON(http.StatusOK, batch)
}

// assembleLines godoc
// @Summary Assemble batch lines from payroll
// @Description Builds one line per eligible employee in scope, replacing any existing lines
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   id path string true "Batch ID"
// @Param   scope body dto.AssembleLinesRequest true "Employer scope"
// @Success 200 {object} domain.WpsBatch
// @Failure 400 {object} map[string]string "Batch not in draft"
// @Security BearerAuth
// @Router /batches/{id}/lines [post]
func (h *batchHandler) assembleLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AssembleLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.batchService.AssembleLines(c.Request.Context(), c.Param("id"), req.Scope, actorID)
	if err != nil {
		logger.Warn("Failed to assemble lines", slog.String("batch_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to assemble lines")
		return
	}
	c.JSON(http.StatusOK, batch)
}

// validateBatch godoc
// @Summary Run validation rules against the batch
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {object} domain.ValidationResult
// @Security BearerAuth
// @Router /batches/{id}/validate [post]
func (h *batchHandler) validateBatch(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.validationService.ValidateBatch(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to validate batch")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listValidations godoc
// @Summary List a batch's validation history
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {array} domain.ValidationResult
// @Security BearerAuth
// @Router /batches/{id}/validations [get]
func (h *batchHandler) listValidations(c *gin.Context) {
	results, err := h.validationService.ListResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list validation results")
		return
	}
	c.JSON(http.StatusOK, results)
}

// getValidationResult godoc
// @Summary Get a single validation result with its lines
// @Tags batches
// @Produce  json
// @Param   id path string true "Validation result ID"
// @Success 200 {object} domain.ValidationResult
// @Failure 404 {object} map[string]string "Result not found"
// @Security BearerAuth
// @Router /validations/{id} [get]
func (h *batchHandler) getValidationResult(c *gin.Context) {
	result, err := h.validationService.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve validation result")
		return
	}
	c.JSON(http.StatusOK, result)
}

// generateSIF godoc
// @Summary Generate the SIF file for the batch
// @Description Encodes the batch; blocked while error-severity validation failures exist
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {object} domain.WpsBatch
// @Failure 409 {object} map[string]string "Blocked by validation errors"
// @Security BearerAuth
// @Router /batches/{id}/generate [post]
func (h *batchHandler) generateSIF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.batchService.GenerateSIF(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		logger.Warn("Failed to generate SIF", slog.String("batch_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to generate SIF file")
		return
	}
	c.JSON(http.StatusOK, batch)
}

// downloadSIF godoc
// @Summary Download the generated SIF file
// @Tags batches
// @Produce  text/plain
// @Param   id path string true "Batch ID"
// @Success 200 {string} string "SIF content"
// @Failure 404 {object} map[string]string "No file generated"
// @Security BearerAuth
// @Router /batches/{id}/file [get]
func (h *batchHandler) downloadSIF(c *gin.Context) {
	filename, content, err := h.batchService.DownloadSIF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to download SIF file")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// submitBatch godoc
// @Summary Submit the batch to a bank connection
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   id path string true "Batch ID"
// @Param   submission body dto.SubmitRequest true "Target connection"
// @Success 201 {object} domain.Submission
// @Failure 409 {object} map[string]string "Connection inactive or submission in flight"
// @Security BearerAuth
// @Router /batches/{id}/submit [post]
func (h *batchHandler) submitBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), c.Param("id"), req.ConnectionID,
		req.SubmissionType(), actorID)
	if err != nil {
		logger.Warn("Failed to submit batch", slog.String("batch_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to submit batch")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// listSubmissions godoc
// @Summary List a batch's submissions
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {array} domain.Submission
// @Security BearerAuth
// @Router /batches/{id}/submissions [get]
func (h *batchHandler) listSubmissions(c *gin.Context) {
	subs, err := h.submissionService.ListSubmissionsByBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// reconcileBatch godoc
// @Summary Reconcile the batch against a bank acknowledgement file
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   id path string true "Batch ID"
// @Param   ack body dto.ReconcileRequest true "Acknowledgement file content"
// @Success 200 {object} domain.Reconciliation
// @Security BearerAuth
// @Router /batches/{id}/reconcile [post]
func (h *batchHandler) reconcileBatch(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recon, err := h.reconciliationService.ReconcileBatch(c.Request.Context(), c.Param("id"), req.AckContent, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile batch")
		return
	}
	c.JSON(http.StatusOK, recon)
}

// listReconciliations godoc
// @Summary List a batch's reconciliation runs
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {array} domain.Reconciliation
// @Security BearerAuth
// @Router /batches/{id}/reconciliations [get]
func (h *batchHandler) listReconciliations(c *gin.Context) {
	recons, err := h.reconciliationService.ListReconciliationsByBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, recons)
}

// getReconciliation godoc
// @Summary Get a single reconciliation run with its lines
// @Tags batches
// @Produce  json
// @Param   id path string true "Reconciliation ID"
// @Success 200 {object} domain.Reconciliation
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /reconciliations/{id} [get]
func (h *batchHandler) getReconciliation(c *gin.Context) {
	recon, err := h.reconciliationService.GetReconciliation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve reconciliation")
		return
	}
	c.JSON(http.StatusOK, recon)
}

// cancelBatch godoc
// @Summary Cancel a batch
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 204
// @Security BearerAuth
// @Router /batches/{id}/cancel [post]
func (h *batchHandler) cancelBatch(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.CancelBatch(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, err, "Failed to cancel batch")
		return
	}
	c.Status(http.StatusNoContent)
}

// resetBatch godoc
// @Summary Reset a rejected or cancelled batch to draft
// @Tags batches
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 204
// @Security BearerAuth
// @Router /batches/{id}/reset [post]
func (h *batchHandler) resetBatch(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.ResetBatchToDraft(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, err, "Failed to reset batch")
		return
	}
	c.Status(http.StatusNoContent)
}
