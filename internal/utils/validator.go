// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON names so API clients can match them.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	validate.RegisterValidation("crop_type", validateCropType)
	validate.RegisterValidation("gps_accuracy", validateGPSAccuracy)
	validate.RegisterValidation("quality_grade", validateQualityGrade)
	validate.RegisterValidation("batch_code", validateBatchCode)
	validate.RegisterValidation("commodity_status", validateCommodityStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Crop types outside the known list are accepted when they yield a prefix.
func validateCropType(fl validator.FieldLevel) bool {
	_, err := batchcode.CropPrefix(fl.Field().String())
	return err == nil
}

func validateGPSAccuracy(fl validator.FieldLevel) bool {
	switch models.GPSAccuracy(fl.Field().String()) {
	case models.GPSAccuracyHigh, models.GPSAccuracyMedium, models.GPSAccuracyLow:
		return true
	}
	return false
}

func validateQualityGrade(fl validator.FieldLevel) bool {
	switch models.QualityGrade(fl.Field().String()) {
	case models.QualityGradeA, models.QualityGradeB, models.QualityGradeC, models.QualityGradeD:
		return true
	}
	return false
}

func validateBatchCode(fl validator.FieldLevel) bool {
	_, err := batchcode.Parse(fl.Field().String())
	return err == nil
}

func validateCommodityStatus(fl validator.FieldLevel) bool {
	return models.CommodityStatus(fl.Field().String()).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "crop_type":
		return "Crop type must contain at least three letters"
	case "gps_accuracy":
		return "GPS accuracy must be one of high, medium or low"
	case "quality_grade":
		return "Quality grade must be one of grade_a, grade_b, grade_c or grade_d"
	case "batch_code":
		return "Batch code must look like COF-BOM-20241222-001"
	case "commodity_status":
		return "Status must be one of registered, pending, approved or rejected"
	default:
		return e.Field() + " is invalid"
	}
}
