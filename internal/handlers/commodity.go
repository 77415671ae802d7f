// internal/handlers/commodity.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/services"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type CommodityHandler struct {
	registrationService *services.RegistrationService
	commodityService    *services.CommodityService
}

func NewCommodityHandler(registrationService *services.RegistrationService, commodityService *services.CommodityService) *CommodityHandler {
	return &CommodityHandler{
		registrationService: registrationService,
		commodityService:    commodityService,
	}
}

func commodityFilter(c *gin.Context) repository.CommodityFilter {
	return repository.CommodityFilter{
		County: c.Query("county"),
		Type:   c.Query("type"),
		Status: models.CommodityStatus(c.Query("status")),
		Search: c.Query("search"),
	}
}

// POST /api/commodities
func (h *CommodityHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterCommodityRequest
	if !bindJSON(c, &req) {
		return
	}

	commodity, err := h.registrationService.Register(c.Request.Context(), utils.GetActorFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyCommodityRegistered),
		"commodity": commodity,
	})
}

// GET /api/commodities
func (h *CommodityHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	commodities, total, err := h.commodityService.List(c.Request.Context(), commodityFilter(c), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(commodities, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/commodities/:batchNumber
func (h *CommodityHandler) Get(c *gin.Context) {
	commodity, err := h.commodityService.Get(c.Request.Context(), c.Param("batchNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, commodity)
}

// PATCH /api/commodities/:batchNumber/status
func (h *CommodityHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actorID, _ := utils.GetUserIDFromContext(c)

	var req services.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	commodity, err := h.commodityService.UpdateStatus(c.Request.Context(), actorID, utils.GetActorFromContext(c), c.Param("batchNumber"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyCommodityStatusUpdated),
		"commodity": commodity,
	})
}

// GET /api/commodities/:batchNumber/label
func (h *CommodityHandler) Label(c *gin.Context) {
	doc, err := h.commodityService.Label(c.Request.Context(), c.Param("batchNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	sendDocument(c, doc.FileName, doc.ContentType, doc.Data)
}

// POST /api/commodities/:batchNumber/label/archive
func (h *CommodityHandler) ArchiveLabel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	obj, err := h.commodityService.ArchiveLabel(c.Request.Context(), utils.GetActorFromContext(c), c.Param("batchNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLabelArchived),
		"object":  obj,
	})
}

// GET /api/commodities/:batchNumber/certificate.csv
func (h *CommodityHandler) Certificate(c *gin.Context) {
	doc, err := h.commodityService.Certificate(c.Request.Context(), c.Param("batchNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	sendDocument(c, doc.FileName, doc.ContentType, doc.Data)
}

// GET /api/commodities/export.xlsx
func (h *CommodityHandler) Export(c *gin.Context) {
	doc, err := h.commodityService.Export(c.Request.Context(), commodityFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	sendDocument(c, doc.FileName, doc.ContentType, doc.Data)
}
