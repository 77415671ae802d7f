// internal/services/requests.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type BatchCodeRequest struct {
	CropType    string `json:"crop_type" validate:"required,crop_type"`
	County      string `json:"county" validate:"required,max=100"`
	HarvestDate string `json:"harvest_date" validate:"required"`
}

type BatchCodePreview struct {
	BatchCode  string `json:"batch_code"`
	CropPrefix string `json:"crop_prefix"`
	CountyCode string `json:"county_code"`
	DateStamp  string `json:"date_stamp"`
	Sequence   int    `json:"sequence"`
	Overflow   string `json:"overflow,omitempty"`
	Policy     string `json:"policy"`
}

// RegisterCommodityRequest mirrors the field registration form. Coordinates
// may come as one gps_coordinates string or as separate latitude, longitude
// and altitude fields.
type RegisterCommodityRequest struct {
	BatchNumber    string          `json:"batch_number,omitempty" validate:"omitempty,batch_code"`
	Name           string          `json:"name,omitempty" validate:"max=100"`
	CropType       string          `json:"type" validate:"required,crop_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit" validate:"required,max=20"`
	QualityGrade   string          `json:"quality_grade" validate:"required,quality_grade"`
	County         string          `json:"county" validate:"required,max=100"`
	District       string          `json:"district,omitempty" validate:"max=100"`
	FarmerID       *uuid.UUID      `json:"farmer_id,omitempty"`
	FarmerName     string          `json:"farmer_name,omitempty" validate:"max=200"`
	HarvestDate    string          `json:"harvest_date" validate:"required"`
	GPSCoordinates string          `json:"gps_coordinates,omitempty" validate:"max=100"`
	Latitude       string          `json:"latitude,omitempty"`
	Longitude      string          `json:"longitude,omitempty"`
	Altitude       string          `json:"altitude,omitempty"`
	GPSAccuracy    string          `json:"gps_accuracy,omitempty" validate:"omitempty,gps_accuracy"`
	PlotID         *uuid.UUID      `json:"plot_id,omitempty"`
	Notes          string          `json:"notes,omitempty" validate:"max=2000"`
}

// coordinates joins the separate form fields the way the form always did.
func (r *RegisterCommodityRequest) coordinates() string {
	if s := strings.TrimSpace(r.GPSCoordinates); s != "" {
		return s
	}
	if r.Latitude == "" || r.Longitude == "" {
		return ""
	}
	s := strings.TrimSpace(r.Latitude) + "," + strings.TrimSpace(r.Longitude)
	if alt := strings.TrimSpace(r.Altitude); alt != "" {
		s += "," + alt
	}
	return s
}

type UpdateStatusRequest struct {
	Status             string     `json:"status" validate:"required,commodity_status"`
	QualityGrade       string     `json:"quality_grade,omitempty" validate:"omitempty,quality_grade"`
	Notes              string     `json:"notes,omitempty" validate:"max=2000"`
	Deficiencies       []string   `json:"deficiencies,omitempty" validate:"max=50,dive,max=500"`
	Recommendations    string     `json:"recommendations,omitempty" validate:"max=2000"`
	NextInspectionDate *time.Time `json:"next_inspection_date,omitempty"`
}

type CreateFarmerRequest struct {
	FarmerCode      string          `json:"farmer_id,omitempty" validate:"max=50"`
	FirstName       string          `json:"first_name" validate:"required,max=100"`
	LastName        string          `json:"last_name" validate:"required,max=100"`
	PhoneNumber     string          `json:"phone_number,omitempty" validate:"max=30"`
	IDNumber        string          `json:"id_number,omitempty" validate:"max=50"`
	County          string          `json:"county" validate:"required,max=100"`
	District        string          `json:"district,omitempty" validate:"max=100"`
	Village         string          `json:"village,omitempty" validate:"max=100"`
	GPSCoordinates  string          `json:"gps_coordinates,omitempty" validate:"max=100"`
	FarmSize        decimal.Decimal `json:"farm_size"`
	FarmSizeUnit    string          `json:"farm_size_unit,omitempty" validate:"max=20"`
	AgreementSigned bool            `json:"agreement_signed"`
}

type PlotPoint struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type CreatePlotRequest struct {
	PlotCode     string          `json:"plot_id,omitempty" validate:"max=50"`
	FarmerID     uuid.UUID       `json:"farmer_id" validate:"required"`
	PlotName     string          `json:"plot_name" validate:"required,max=200"`
	CropType     string          `json:"crop_type" validate:"required,crop_type"`
	PlotSize     decimal.Decimal `json:"plot_size"`
	PlotSizeUnit string          `json:"plot_size_unit,omitempty" validate:"max=20"`
	Boundary     []PlotPoint     `json:"gps_coordinates,omitempty" validate:"dive"`
	SoilType     string          `json:"soil_type,omitempty" validate:"max=50"`
}

// validationFailed keeps the validator's field errors reachable for handlers.
func validationFailed(err error) error {
	return &errs.Error{Kind: errs.KindValidation, Message: "request validation failed", Err: err}
}

func validateRequest(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationFailed(err)
	}
	return nil
}

// ParseHarvestDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// the calendar day the client saw at UTC midnight, so storage in any zone
// prints the same date the batch code carries.
func ParseHarvestDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errs.Validation("harvest_date", "harvest date must be YYYY-MM-DD")
}
