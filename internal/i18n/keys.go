// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthTokenExpired  = "auth.token_expired"
	KeyAuthForbiddenRole = "auth.forbidden_role"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Batch codes
	KeyBatchCodeGenerated        = "batch_code.generated"
	KeyBatchCodeInvalid          = "batch_code.invalid"
	KeyBatchCodeDuplicate        = "batch_code.duplicate"
	KeyBatchCodeCapacityExceeded = "batch_code.capacity_exceeded"
	KeyBackendUnavailable        = "batch_code.backend_unavailable"

	// Commodities
	KeyCommodityRegistered      = "commodity.registered"
	KeyCommodityNotFound        = "commodity.not_found"
	KeyCommodityStatusUpdated   = "commodity.status_updated"
	KeyCommodityTransitionFault = "commodity.invalid_transition"
	KeyLabelArchived            = "commodity.label_archived"

	// Reference data
	KeyFarmerNotFound = "farmer.not_found"
	KeyPlotNotFound   = "farm_plot.not_found"
	KeyPlotNoGPS      = "farm_plot.no_gps"

	// Verification
	KeyVerificationValid   = "verification.valid"
	KeyVerificationInvalid = "verification.invalid"
)
