// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/geo"
	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/utils"
)

// respondError maps a service error onto the API's status codes and error
// codes. Unclassified errors are logged and reported as 500 without detail.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var locErr *geo.LocationError
	if errors.As(err, &locErr) {
		respondLocationError(c, locErr)
		return
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		details := utils.GetValidationErrors(err)
		if len(details) == 0 {
			details = []utils.ValidationError{{Field: errs.FieldOf(err), Tag: "invalid", Message: validationMessage(err)}}
		}
		utils.ValidationErrorResponse(c, details)
	case errs.KindDuplicate:
		utils.ErrorResponse(c, http.StatusConflict, "DUPLICATE_BATCH_CODE", i18n.T(lang, i18n.KeyBatchCodeDuplicate), err.Error())
	case errs.KindCapacityExceeded:
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED", i18n.T(lang, i18n.KeyBatchCodeCapacityExceeded), err.Error())
	case errs.KindUnavailable:
		logrus.WithError(err).Error("Backend unavailable")
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE", i18n.T(lang, i18n.KeyBackendUnavailable), nil)
	case errs.KindNotFound:
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errs.KindConflict:
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", i18n.T(lang, i18n.KeyCommodityTransitionFault), err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled request error")
		utils.InternalErrorResponse(c, "")
	}
}

func validationMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func respondLocationError(c *gin.Context, err *geo.LocationError) {
	lang := utils.GetLangFromContext(c)

	if errs.IsKind(err.Err, errs.KindNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "GPS_NOT_FOUND", i18n.T(lang, i18n.KeyPlotNoGPS), err.Err.Error())
		return
	}

	switch err.Reason {
	case geo.ReasonTimeout:
		utils.ErrorResponse(c, http.StatusGatewayTimeout, "GPS_TIMEOUT", err.Error(), nil)
	case geo.ReasonPermissionDenied:
		utils.ErrorResponse(c, http.StatusForbidden, "GPS_PERMISSION_DENIED", err.Error(), nil)
	default:
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "GPS_UNAVAILABLE", err.Error(), nil)
	}
}

// bindJSON decodes the request body and writes the 400 itself on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// sendDocument writes a generated file as a download.
func sendDocument(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}
