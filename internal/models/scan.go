// internal/models/scan.go
package models

type ScannerType string

const (
	ScannerTypePublic    ScannerType = "public"
	ScannerTypeBuyer     ScannerType = "buyer"
	ScannerTypeInspector ScannerType = "inspector"
	ScannerTypeExporter  ScannerType = "exporter"
	ScannerTypeCustoms   ScannerType = "customs"
)

func (t ScannerType) Valid() bool {
	switch t {
	case ScannerTypePublic, ScannerTypeBuyer, ScannerTypeInspector, ScannerTypeExporter, ScannerTypeCustoms:
		return true
	}
	return false
}

// QRScan records one verification of a printed label.
type QRScan struct {
	BaseModel
	BatchNumber     string      `json:"batch_number" gorm:"size:32;not null;index"`
	ScannedBy       string      `json:"scanned_by" gorm:"size:100"`
	ScannerType     ScannerType `json:"scanner_type" gorm:"type:varchar(20);not null;default:'public'"`
	ScanLocation    string      `json:"scan_location" gorm:"size:200"`
	ScanCoordinates string      `json:"scan_coordinates" gorm:"size:100"`
	DeviceInfo      string      `json:"device_info" gorm:"type:text"`
	IPAddress       string      `json:"ip_address" gorm:"size:45"`
}

func (QRScan) TableName() string {
	return "qr_scans"
}
