// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IDs are assigned here rather than by a column default so the same schema
// works on every dialect the repositories run against.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type CommodityStatus string

const (
	CommodityStatusRegistered CommodityStatus = "registered"
	CommodityStatusPending    CommodityStatus = "pending"
	CommodityStatusApproved   CommodityStatus = "approved"
	CommodityStatusRejected   CommodityStatus = "rejected"
)

var commodityTransitions = map[CommodityStatus][]CommodityStatus{
	CommodityStatusRegistered: {CommodityStatusPending, CommodityStatusApproved, CommodityStatusRejected},
	CommodityStatusPending:    {CommodityStatusApproved, CommodityStatusRejected},
}

func (s CommodityStatus) Valid() bool {
	switch s {
	case CommodityStatusRegistered, CommodityStatusPending, CommodityStatusApproved, CommodityStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a review may move a record from s to next.
// Approved and rejected are terminal.
func (s CommodityStatus) CanTransitionTo(next CommodityStatus) bool {
	for _, allowed := range commodityTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type GPSAccuracy string

const (
	GPSAccuracyHigh   GPSAccuracy = "high"
	GPSAccuracyMedium GPSAccuracy = "medium"
	GPSAccuracyLow    GPSAccuracy = "low"
)

type QualityGrade string

const (
	QualityGradeA QualityGrade = "grade_a"
	QualityGradeB QualityGrade = "grade_b"
	QualityGradeC QualityGrade = "grade_c"
	QualityGradeD QualityGrade = "grade_d"
)

var qualityGradeLabels = map[QualityGrade]string{
	QualityGradeA: "Grade A (Premium)",
	QualityGradeB: "Grade B (Standard)",
	QualityGradeC: "Grade C (Commercial)",
	QualityGradeD: "Grade D (Fair)",
}

func (g QualityGrade) Label() string {
	if label, ok := qualityGradeLabels[g]; ok {
		return label
	}
	return string(g)
}

type FarmerStatus string

const (
	FarmerStatusActive    FarmerStatus = "active"
	FarmerStatusInactive  FarmerStatus = "inactive"
	FarmerStatusSuspended FarmerStatus = "suspended"
)

type PlotStatus string

const (
	PlotStatusActive  PlotStatus = "active"
	PlotStatusFallow  PlotStatus = "fallow"
	PlotStatusRetired PlotStatus = "retired"
)

// Roles carried in the bearer token issued by the identity service.
type Role string

const (
	RoleFieldAgent Role = "field_agent"
	RoleInspector  Role = "inspector"
	RoleAdmin      Role = "admin"
)
