package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

// ruleHandler handles HTTP requests for validation rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

func newRuleHandler(rs portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{ruleService: rs}
}

// registerRuleRoutes registers routes related to validation rules.
func registerRuleRoutes(rg *gin.RouterGroup, rs portssvc.RuleSvcFacade) {
	h := newRuleHandler(rs)

	rules := rg.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.GET("/:id", h.getRule)
		rules.PATCH("/:id", h.updateRule)
	}
}

// createRule godoc
// @Summary Create a validation rule
// @Description Registers a declarative rule; its configuration is checked for evaluability
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule details"
// @Success 201 {object} domain.ValidationRule
// @Failure 400 {object} map[string]string "Invalid rule configuration"
// @Failure 409 {object} map[string]string "Rule code already exists"
// @Security BearerAuth
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create rule", slog.String("code", req.Code), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// listRules godoc
// @Summary List all validation rules
// @Tags rules
// @Produce  json
// @Success 200 {array} domain.ValidationRule
// @Security BearerAuth
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	rules, err := h.ruleService.ListRules(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// getRule godoc
// @Summary Get a validation rule
// @Tags rules
// @Produce  json
// @Param   id path string true "Rule ID"
// @Success 200 {object} domain.ValidationRule
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{id} [get]
func (h *ruleHandler) getRule(c *gin.Context) {
	rule, err := h.ruleService.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// updateRule godoc
// @Summary Update a validation rule
// @Description Patches the given fields; the resulting configuration is re-checked
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   id path string true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Fields to update"
// @Success 200 {object} domain.ValidationRule
// @Failure 400 {object} map[string]string "Invalid rule configuration"
// @Security BearerAuth
// @Router /rules/{id} [patch]
func (h *ruleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		logger.Warn("Failed to update rule", slog.String("rule_id", c.Param("id")), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to update rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}
