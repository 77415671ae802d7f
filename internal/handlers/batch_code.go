// internal/handlers/batch_code.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lacra/agritrace-backend/internal/label"
	"github.com/lacra/agritrace-backend/internal/services"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type BatchCodeHandler struct {
	registrationService *services.RegistrationService
	verificationService *services.VerificationService
	commodityService    *services.CommodityService
}

func NewBatchCodeHandler(registrationService *services.RegistrationService, verificationService *services.VerificationService, commodityService *services.CommodityService) *BatchCodeHandler {
	return &BatchCodeHandler{
		registrationService: registrationService,
		verificationService: verificationService,
		commodityService:    commodityService,
	}
}

// POST /api/batch-codes
func (h *BatchCodeHandler) Generate(c *gin.Context) {
	var req services.BatchCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := h.registrationService.Preview(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, preview)
}

// GET /api/batch-codes/:code
func (h *BatchCodeHandler) Lookup(c *gin.Context) {
	lookup, err := h.verificationService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, lookup)
}

// GET /api/batch-codes/:code/label
func (h *BatchCodeHandler) DraftLabel(c *gin.Context) {
	doc, err := h.commodityService.DraftLabel(c.Param("code"), label.Draft{
		CropType:  c.Query("crop_type"),
		County:    c.Query("county"),
		Latitude:  c.Query("latitude"),
		Longitude: c.Query("longitude"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	sendDocument(c, doc.FileName, doc.ContentType, doc.Data)
}
