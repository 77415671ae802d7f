// internal/handlers/verification.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/services"
	"github.com/lacra/agritrace-backend/internal/utils"
)

const maxScansListed = 100

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

// GET /api/verify/:batchCode?scanner_type=&scan_location=&scan_coordinates=
// POST /api/verify/:batchCode with the same fields as a JSON body
func (h *VerificationHandler) VerifyBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var scan services.ScanInfo
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if !bindJSON(c, &scan) {
			return
		}
	} else if err := c.ShouldBindQuery(&scan); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "query"), err.Error())
		return
	}
	scan.DeviceInfo = c.Request.UserAgent()
	scan.IPAddress = c.ClientIP()

	result, err := h.verificationService.Verify(c.Request.Context(), c.Param("batchCode"), &scan)
	if err != nil {
		respondError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyVerificationInvalid)
	if result.Authentic {
		message = i18n.T(lang, i18n.KeyVerificationValid)
	}

	utils.SuccessResponse(c, gin.H{
		"verified":     result.Authentic,
		"message":      message,
		"scan_count":   result.ScanCount,
		"verification": result,
	})
}

// GET /api/commodities/:batchNumber/scans?limit=
func (h *VerificationHandler) ListScans(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > maxScansListed {
		limit = 20
	}

	scans, err := h.verificationService.Scans(c.Request.Context(), c.Param("batchNumber"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, scans)
}
