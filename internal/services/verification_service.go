// internal/services/verification_service.go
package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/geo"
	"github.com/lacra/agritrace-backend/internal/ledger"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
)

type VerificationService struct {
	repos  *repository.Repositories
	ledger *ledger.Ledger
}

// CodeLookup describes a batch code without exposing the record behind it.
type CodeLookup struct {
	BatchCode  string `json:"batch_code"`
	CropPrefix string `json:"crop_prefix"`
	CropLabel  string `json:"crop_label,omitempty"`
	CountyCode string `json:"county_code"`
	DateStamp  string `json:"date_stamp"`
	Sequence   int    `json:"sequence"`
	Overflow   string `json:"overflow,omitempty"`
	Registered bool   `json:"registered"`
}

type CommoditySummary struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	County       string `json:"county"`
	QualityGrade string `json:"quality_grade"`
	HarvestDate  string `json:"harvest_date"`
	Status       string `json:"status"`
}

type VerificationResult struct {
	CodeLookup
	Authentic bool                 `json:"authentic"`
	Commodity *CommoditySummary    `json:"commodity,omitempty"`
	Trace     *ledger.Verification `json:"trace,omitempty"`
	ScanCount int64                `json:"scan_count"`
}

// ScanInfo describes who scanned a label and where. Every field is optional;
// an empty scanner type is recorded as public.
type ScanInfo struct {
	ScannedBy       string `form:"scanned_by" json:"scanned_by"`
	ScannerType     string `form:"scanner_type" json:"scanner_type"`
	ScanLocation    string `form:"scan_location" json:"scan_location"`
	ScanCoordinates string `form:"scan_coordinates" json:"scan_coordinates"`
	DeviceInfo      string `form:"-" json:"-"`
	IPAddress       string `form:"-" json:"-"`
}

func NewVerificationService(repos *repository.Repositories, trace *ledger.Ledger) *VerificationService {
	return &VerificationService{repos: repos, ledger: trace}
}

// Lookup parses code and reports whether a commodity is registered under it.
func (s *VerificationService) Lookup(ctx context.Context, code string) (*CodeLookup, error) {
	parsed, err := batchcode.Parse(code)
	if err != nil {
		return nil, err
	}

	registered, err := s.repos.Commodity.ExistsByBatchNumber(ctx, parsed.String())
	if err != nil {
		return nil, err
	}
	return lookupFor(parsed, registered), nil
}

// Verify is the public check behind a label's QR code. A code is authentic
// when it is registered and its trace chain verifies. Scans of registered
// codes are recorded; scan may be nil.
func (s *VerificationService) Verify(ctx context.Context, code string, scan *ScanInfo) (*VerificationResult, error) {
	parsed, err := batchcode.Parse(code)
	if err != nil {
		return nil, err
	}
	record, err := newScan(parsed.String(), scan)
	if err != nil {
		return nil, err
	}

	commodity, err := s.repos.Commodity.FindByBatchNumber(ctx, parsed.String())
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return &VerificationResult{CodeLookup: *lookupFor(parsed, false)}, nil
		}
		return nil, err
	}

	trace, err := s.ledger.Verify(ctx, commodity.BatchNumber)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Scan.Create(ctx, record); err != nil {
		return nil, err
	}
	count, err := s.repos.Scan.CountByBatchNumber(ctx, commodity.BatchNumber)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_code":   commodity.BatchNumber,
		"scanner_type": record.ScannerType,
		"authentic":    trace.Valid,
		"scan_count":   count,
	}).Info("Batch code scanned")

	return &VerificationResult{
		CodeLookup: *lookupFor(parsed, true),
		Authentic:  trace.Valid,
		Commodity:  summarize(commodity),
		Trace:      trace,
		ScanCount:  count,
	}, nil
}

// Scans returns the latest scans of a registered code.
func (s *VerificationService) Scans(ctx context.Context, code string, limit int) ([]models.QRScan, error) {
	parsed, err := batchcode.Parse(code)
	if err != nil {
		return nil, err
	}
	return s.repos.Scan.ListByBatchNumber(ctx, parsed.String(), limit)
}

func newScan(batchNumber string, info *ScanInfo) (*models.QRScan, error) {
	if info == nil {
		info = &ScanInfo{}
	}
	scannerType := models.ScannerType(strings.ToLower(strings.TrimSpace(info.ScannerType)))
	if scannerType == "" {
		scannerType = models.ScannerTypePublic
	}
	if !scannerType.Valid() {
		return nil, errs.Validation("scanner_type", "scanner type must be one of public, buyer, inspector, exporter, customs")
	}

	coordinates := strings.TrimSpace(info.ScanCoordinates)
	if coordinates != "" {
		pos, err := geo.ParseCoordinates(coordinates)
		if err != nil {
			return nil, errs.Validation("scan_coordinates", "expected lat,lng or lat,lng,alt")
		}
		coordinates = pos.String()
	}

	return &models.QRScan{
		BatchNumber:     batchNumber,
		ScannedBy:       strings.TrimSpace(info.ScannedBy),
		ScannerType:     scannerType,
		ScanLocation:    strings.TrimSpace(info.ScanLocation),
		ScanCoordinates: coordinates,
		DeviceInfo:      info.DeviceInfo,
		IPAddress:       info.IPAddress,
	}, nil
}

func lookupFor(code batchcode.BatchCode, registered bool) *CodeLookup {
	l := &CodeLookup{
		BatchCode:  code.String(),
		CropPrefix: code.CropPrefix,
		CountyCode: code.CountyCode,
		DateStamp:  code.DateStamp,
		Sequence:   code.Sequence,
		Overflow:   code.Overflow,
		Registered: registered,
	}
	for _, crop := range batchcode.Crops {
		if crop.Prefix == code.CropPrefix {
			l.CropLabel = crop.Label
			break
		}
	}
	return l
}

func summarize(c *models.Commodity) *CommoditySummary {
	return &CommoditySummary{
		Name:         c.Name,
		Type:         c.Type,
		County:       c.County,
		QualityGrade: c.QualityGrade.Label(),
		HarvestDate:  c.HarvestDate.Format("2006-01-02"),
		Status:       string(c.Status),
	}
}
