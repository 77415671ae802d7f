// internal/models/commodity.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Commodity struct {
	BaseModel
	BatchNumber    string          `json:"batch_number" gorm:"size:32;not null;uniqueIndex"`
	Name           string          `json:"name" gorm:"size:100;not null"`
	Type           string          `json:"type" gorm:"size:50;not null;index"`
	Quantity       decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit           string          `json:"unit" gorm:"size:20;not null"`
	QualityGrade   QualityGrade    `json:"quality_grade" gorm:"type:varchar(20);not null"`
	County         string          `json:"county" gorm:"size:100;not null;index"`
	District       string          `json:"district" gorm:"size:100"`
	FarmerID       *uuid.UUID      `json:"farmer_id" gorm:"type:uuid;index"`
	FarmerName     *string         `json:"farmer_name" gorm:"size:200"`
	HarvestDate    time.Time       `json:"harvest_date" gorm:"not null"`
	GPSCoordinates *string         `json:"gps_coordinates" gorm:"size:100"`
	GPSAccuracy    *GPSAccuracy    `json:"gps_accuracy" gorm:"type:varchar(10)"`
	PlotID         *uuid.UUID      `json:"plot_id" gorm:"type:uuid;index"`
	Status         CommodityStatus `json:"status" gorm:"type:varchar(20);not null;default:'registered';index"`
	Notes          *string         `json:"notes" gorm:"type:text"`
	RegisteredBy   string          `json:"registered_by" gorm:"size:100"`

	// Approval metadata
	ReviewedBy  *string    `json:"reviewed_by" gorm:"size:100"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewNotes *string    `json:"review_notes" gorm:"type:text"`

	// Relationships
	Inspections []Inspection `json:"inspections,omitempty" gorm:"foreignKey:CommodityID"`
}

type Inspection struct {
	BaseModel
	CommodityID        uuid.UUID       `json:"commodity_id" gorm:"type:uuid;not null;index"`
	InspectorID        string          `json:"inspector_id" gorm:"size:100;not null"`
	InspectorName      string          `json:"inspector_name" gorm:"size:200"`
	InspectionDate     time.Time       `json:"inspection_date" gorm:"not null"`
	QualityGrade       QualityGrade    `json:"quality_grade" gorm:"type:varchar(20);not null"`
	ResultStatus       CommodityStatus `json:"result_status" gorm:"type:varchar(20);not null"`
	Notes              string          `json:"notes" gorm:"type:text"`
	Deficiencies       pq.StringArray  `json:"deficiencies" gorm:"type:text"`
	Recommendations    string          `json:"recommendations" gorm:"type:text"`
	NextInspectionDate *time.Time      `json:"next_inspection_date"`
}

// BatchSequence is the durable counter row behind one composite key.
type BatchSequence struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CropPrefix string    `json:"crop_prefix" gorm:"size:3;not null;uniqueIndex:idx_batch_sequences_key"`
	CountyCode string    `json:"county_code" gorm:"size:3;not null;uniqueIndex:idx_batch_sequences_key"`
	DateStamp  string    `json:"date_stamp" gorm:"size:8;not null;uniqueIndex:idx_batch_sequences_key"`
	Overflow   string    `json:"overflow" gorm:"size:1;not null;default:'';uniqueIndex:idx_batch_sequences_key"`
	LastValue  int       `json:"last_value" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
