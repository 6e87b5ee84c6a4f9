package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
)

// bankHandler handles HTTP requests for the bank registry.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{bankService: bs}
}

// RegisterBankRoutes registers routes related to the bank registry.
func RegisterBankRoutes(rg *gin.RouterGroup, bs portssvc.BankSvcFacade) {
	h := newBankHandler(bs)

	banks := rg.Group("/banks")
	{
		banks.POST("", h.createBank)
		banks.GET("", h.listBanks)
		banks.GET("/:id", h.getBank)
	}
}

// createBank godoc
// @Summary Register a bank or exchange house
// @Tags banks
// @Accept  json
// @Produce  json
// @Param   bank body dto.CreateBankRequest true "Bank details"
// @Success 201 {object} domain.Bank
// @Failure 409 {object} map[string]string "Routing code already registered"
// @Security BearerAuth
// @Router /banks [post]
func (h *bankHandler) createBank(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bank, err := h.bankService.CreateBank(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create bank", slog.String("routing_code", req.RoutingCode), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create bank")
		return
	}
	c.JSON(http.StatusCreated, bank)
}

// listBanks godoc
// @Summary List active banks
// @Tags banks
// @Produce  json
// @Param   wpsOnly query bool false "Only banks that accept WPS files" default(false)
// @Success 200 {array} domain.Bank
// @Security BearerAuth
// @Router /banks [get]
func (h *bankHandler) listBanks(c *gin.Context) {
	wpsOnly, _ := strconv.ParseBool(c.DefaultQuery("wpsOnly", "false"))

	banks, err := h.bankService.ListBanks(c.Request.Context(), wpsOnly)
	if err != nil {
		respondServiceError(c, err, "Failed to list banks")
		return
	}
	c.JSON(http.StatusOK, banks)
}

// getBank godoc
// @Summary Get a bank
// @Tags banks
// @Produce  json
// @Param   id path string true "Bank ID"
// @Success 200 {object} domain.Bank
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{id} [get]
func (h *bankHandler) getBank(c *gin.Context) {
	bank, err := h.bankService.GetBank(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve bank")
		return
	}
	c.JSON(http.StatusOK, bank)
}
