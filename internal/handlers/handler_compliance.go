package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
)

// complianceHandler serves monthly compliance records.
type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
}

func newComplianceHandler(cs portssvc.ComplianceSvcFacade) *complianceHandler {
	return &complianceHandler{complianceService: cs}
}

// registerComplianceRoutes registers routes related to compliance records.
func registerComplianceRoutes(rg *gin.RouterGroup, cs portssvc.ComplianceSvcFacade) {
	h := newComplianceHandler(cs)

	rg.GET("/compliance", h.listComplianceRecords)
}

// listComplianceRecords godoc
// @Summary List compliance records for a year
// @Description One record per processed batch and period, written when the bank confirms processing
// @Tags compliance
// @Produce  json
// @Param   year query int false "Calendar year, defaults to the current year"
// @Success 200 {array} domain.ComplianceRecord
// @Security BearerAuth
// @Router /compliance [get]
func (h *complianceHandler) listComplianceRecords(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	records, err := h.complianceService.ListComplianceRecords(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, err, "Failed to list compliance records")
		return
	}
	c.JSON(http.StatusOK, records)
}
