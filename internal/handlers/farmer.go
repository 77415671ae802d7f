// internal/handlers/farmer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/services"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type FarmerHandler struct {
	farmerService *services.FarmerService
}

func NewFarmerHandler(farmerService *services.FarmerService) *FarmerHandler {
	return &FarmerHandler{farmerService: farmerService}
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, what), nil)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/farmers
func (h *FarmerHandler) ListFarmers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := repository.FarmerFilter{
		County: c.Query("county"),
		Status: models.FarmerStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	farmers, total, err := h.farmerService.ListFarmers(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(farmers, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/farmers/:id
func (h *FarmerHandler) GetFarmer(c *gin.Context) {
	id, ok := parseID(c, "farmer ID")
	if !ok {
		return
	}

	farmer, err := h.farmerService.GetFarmer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, farmer)
}

// POST /api/farmers
func (h *FarmerHandler) CreateFarmer(c *gin.Context) {
	var req services.CreateFarmerRequest
	if !bindJSON(c, &req) {
		return
	}

	farmer, err := h.farmerService.CreateFarmer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, farmer)
}

// GET /api/farm-plots
func (h *FarmerHandler) ListPlots(c *gin.Context) {
	var farmerID *uuid.UUID
	if raw := c.Query("farmer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			lang := utils.GetLangFromContext(c)
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "farmer ID"), nil)
			return
		}
		farmerID = &id
	}

	plots, err := h.farmerService.ListPlots(c.Request.Context(), farmerID, c.Query("crop_type"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, plots)
}

// POST /api/farm-plots
func (h *FarmerHandler) CreatePlot(c *gin.Context) {
	var req services.CreatePlotRequest
	if !bindJSON(c, &req) {
		return
	}

	plot, err := h.farmerService.CreatePlot(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, plot)
}

// GET /api/farm-plots/:id/gps
func (h *FarmerHandler) PlotGPS(c *gin.Context) {
	id, ok := parseID(c, "farm plot ID")
	if !ok {
		return
	}

	location, err := h.farmerService.PlotGPS(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, location)
}
