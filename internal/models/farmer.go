// internal/models/farmer.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Farmer struct {
	BaseModel
	FarmerCode      string          `json:"farmer_id" gorm:"size:50;not null;uniqueIndex"`
	FirstName       string          `json:"first_name" gorm:"size:100;not null"`
	LastName        string          `json:"last_name" gorm:"size:100;not null"`
	PhoneNumber     string          `json:"phone_number" gorm:"size:30"`
	IDNumber        string          `json:"id_number" gorm:"size:50"`
	County          string          `json:"county" gorm:"size:100;not null;index"`
	District        string          `json:"district" gorm:"size:100"`
	Village         string          `json:"village" gorm:"size:100"`
	GPSCoordinates  string          `json:"gps_coordinates" gorm:"size:100"`
	FarmSize        decimal.Decimal `json:"farm_size" gorm:"type:decimal(10,2)"`
	FarmSizeUnit    string          `json:"farm_size_unit" gorm:"size:20;default:'hectares'"`
	Status          FarmerStatus    `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	AgreementSigned bool            `json:"agreement_signed" gorm:"default:false"`
	AgreementDate   *time.Time      `json:"agreement_date"`

	// Relationships
	Plots []FarmPlot `json:"plots,omitempty" gorm:"foreignKey:FarmerID"`
}

func (f *Farmer) FullName() string {
	return f.FirstName + " " + f.LastName
}

type FarmPlot struct {
	BaseModel
	PlotCode            string          `json:"plot_id" gorm:"size:50;not null;uniqueIndex"`
	FarmerID            uuid.UUID       `json:"farmer_id" gorm:"type:uuid;not null;index"`
	PlotName            string          `json:"plot_name" gorm:"size:200;not null"`
	CropType            string          `json:"crop_type" gorm:"size:50;not null"`
	PlotSize            decimal.Decimal `json:"plot_size" gorm:"type:decimal(10,2);not null"`
	PlotSizeUnit        string          `json:"plot_size_unit" gorm:"size:20;default:'hectares'"`
	GPSCoordinates      string          `json:"gps_coordinates" gorm:"type:text"` // JSON array of {lat,lng}
	SoilType            string          `json:"soil_type" gorm:"size:50"`
	PlantingDate        *time.Time      `json:"planting_date"`
	ExpectedHarvestDate *time.Time      `json:"expected_harvest_date"`
	Status              PlotStatus      `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
}
