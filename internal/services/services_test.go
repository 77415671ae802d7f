// internal/services/services_test.go
package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/events"
	"github.com/lacra/agritrace-backend/internal/geo"
	"github.com/lacra/agritrace-backend/internal/label"
	"github.com/lacra/agritrace-backend/internal/ledger"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/sequence"
	"github.com/lacra/agritrace-backend/internal/storage"
	"github.com/lacra/agritrace-backend/internal/testutil"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type env struct {
	db           *gorm.DB
	repos        *repository.Repositories
	trace        *ledger.Ledger
	publisher    *recordingPublisher
	storageRoot  string
	registration *RegistrationService
	commodities  *CommodityService
	verification *VerificationService
	farmers      *FarmerService
}

func newEnv(t *testing.T, alloc sequence.Allocator, policy sequence.Policy) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	trace := ledger.New(db)
	pub := &recordingPublisher{}
	root := t.TempDir()

	if alloc == nil {
		alloc = sequence.NewMemoryAllocator(0)
	}
	issuer := sequence.NewIssuer(alloc, policy)
	labelCfg := config.LabelConfig{VerifyBaseURL: "https://verify.example.org/verify"}

	commodities := NewCommodityService(db, repos, trace, storage.NewLocalStore(root, "/uploads"), pub, labelCfg)
	commodities.now = func() time.Time { return time.Date(2024, 12, 23, 9, 0, 0, 0, time.UTC) }

	return &env{
		db:           db,
		repos:        repos,
		trace:        trace,
		publisher:    pub,
		storageRoot:  root,
		registration: NewRegistrationService(db, repos, issuer, trace, pub),
		commodities:  commodities,
		verification: NewVerificationService(repos, trace),
		farmers:      NewFarmerService(repos, time.Second, time.Minute),
	}
}

func coffeeRequest() *RegisterCommodityRequest {
	return &RegisterCommodityRequest{
		CropType:     "coffee",
		Quantity:     decimal.RequireFromString("500"),
		Unit:         "kg",
		QualityGrade: "grade_a",
		County:       "Bomi County",
		HarvestDate:  "2024-12-22",
		FarmerName:   "Musu Kollie",
	}
}

func countCommodities(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Commodity{}).Count(&n).Error)
	return n
}

func TestRegister_AllocatesCodeAndWritesGenesis(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	c, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)

	assert.Equal(t, "COF-BOM-20241222-001", c.BatchNumber)
	assert.Equal(t, "Coffee", c.Name)
	assert.Equal(t, models.CommodityStatusRegistered, c.Status)
	assert.Equal(t, "agent-1", c.RegisteredBy)
	require.NotNil(t, c.FarmerName)
	assert.Equal(t, "Musu Kollie", *c.FarmerName)

	v, err := e.trace.Verify(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 1, v.Records)

	assert.Equal(t, []string{events.TypeCommodityRegistered}, e.publisher.types())

	second, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)
	assert.Equal(t, "COF-BOM-20241222-002", second.BatchNumber)
}

func TestRegister_DuplicateSuppliedCode(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	req := coffeeRequest()
	req.BatchNumber = "COF-BOM-20241222-007"
	_, err := e.registration.Register(ctx, "agent-1", req)
	require.NoError(t, err)

	again := coffeeRequest()
	again.BatchNumber = "COF-BOM-20241222-007"
	_, err = e.registration.Register(ctx, "agent-2", again)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindDuplicate))
	assert.Equal(t, int64(1), countCommodities(t, e.db))

	records, err := e.trace.History(ctx, "COF-BOM-20241222-007")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRegister_OffsetTimestampKeepsCalendarDay(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	req := coffeeRequest()
	req.HarvestDate = "2024-12-22T23:30:00-05:00"
	c, err := e.registration.Register(ctx, "agent-1", req)
	require.NoError(t, err)
	assert.Equal(t, "COF-BOM-20241222-001", c.BatchNumber)

	stored, err := e.commodities.Get(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.True(t, stored.HarvestDate.Equal(time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC)), "stored %s", stored.HarvestDate)
	assert.Equal(t, "2024-12-22", stored.HarvestDate.UTC().Format("2006-01-02"))

	doc, err := e.commodities.Label(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), "<strong>Harvest:</strong></span><span>2024-12-22</span>")

	result, err := e.verification.Verify(ctx, c.BatchNumber, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-22", result.Commodity.HarvestDate)
}

func TestParseHarvestDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-12-22", time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC)},
		{"2024-12-22T23:30:00-05:00", time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC)},
		{"2024-12-23T00:15:00+01:00", time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHarvestDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegister_SuppliedCodeMustMatch(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)

	req := coffeeRequest()
	req.BatchNumber = "COC-BOM-20241222-001"
	_, err := e.registration.Register(context.Background(), "agent-1", req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
	assert.Equal(t, "batch_number", errs.FieldOf(err))
	assert.Zero(t, countCommodities(t, e.db))
}

func TestRegister_ValidationFailures(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterCommodityRequest)
		field  string
	}{
		{"zero quantity", func(r *RegisterCommodityRequest) { r.Quantity = decimal.Zero }, "quantity"},
		{"bad harvest date", func(r *RegisterCommodityRequest) { r.HarvestDate = "22/12/2024" }, "harvest_date"},
		{"latitude out of range", func(r *RegisterCommodityRequest) { r.GPSCoordinates = "95,10" }, "gps_coordinates"},
		{"unknown farmer", func(r *RegisterCommodityRequest) { id := uuid.New(); r.FarmerID = &id }, "farmer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := coffeeRequest()
			tt.mutate(req)
			_, err := e.registration.Register(ctx, "agent-1", req)
			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.KindValidation))
			assert.Equal(t, tt.field, errs.FieldOf(err))
		})
	}

	req := coffeeRequest()
	req.QualityGrade = "grade_z"
	_, err := e.registration.Register(ctx, "agent-1", req)
	require.Error(t, err)
	details := utils.GetValidationErrors(err)
	require.Len(t, details, 1)
	assert.Equal(t, "quality_grade", details[0].Field)

	assert.Zero(t, countCommodities(t, e.db))
}

func TestRegister_PlotPrefillsCoordinates(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	farmer, err := e.farmers.CreateFarmer(ctx, &CreateFarmerRequest{
		FirstName: "Musu",
		LastName:  "Kollie",
		County:    "Bomi County",
		FarmSize:  decimal.RequireFromString("4.5"),
	})
	require.NoError(t, err)

	plot, err := e.farmers.CreatePlot(ctx, &CreatePlotRequest{
		FarmerID: farmer.ID,
		PlotName: "North field",
		CropType: "coffee",
		PlotSize: decimal.RequireFromString("1.2"),
		Boundary: []PlotPoint{{Lat: 6.7547, Lng: -11.3637}, {Lat: 6.7551, Lng: -11.3641}},
	})
	require.NoError(t, err)

	req := coffeeRequest()
	req.FarmerName = ""
	req.FarmerID = &farmer.ID
	req.PlotID = &plot.ID
	c, err := e.registration.Register(ctx, "agent-1", req)
	require.NoError(t, err)

	require.NotNil(t, c.GPSCoordinates)
	assert.Equal(t, "6.754700,-11.363700", *c.GPSCoordinates)
	require.NotNil(t, c.FarmerName)
	assert.Equal(t, "Musu Kollie", *c.FarmerName)

	other, err := e.farmers.CreateFarmer(ctx, &CreateFarmerRequest{FirstName: "Joseph", LastName: "Flomo", County: "Bong County"})
	require.NoError(t, err)
	req = coffeeRequest()
	req.FarmerID = &other.ID
	req.PlotID = &plot.ID
	_, err = e.registration.Register(ctx, "agent-1", req)
	assert.Equal(t, "plot_id", errs.FieldOf(err))
}

func TestRegister_ExplicitCoordinatesAreNormalized(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)

	req := coffeeRequest()
	req.Latitude = "6.3"
	req.Longitude = "-10.8"
	req.Altitude = "21.456"
	req.GPSAccuracy = "medium"
	c, err := e.registration.Register(context.Background(), "agent-1", req)
	require.NoError(t, err)

	require.NotNil(t, c.GPSCoordinates)
	assert.Equal(t, "6.300000,-10.800000,21.46", *c.GPSCoordinates)
	require.NotNil(t, c.GPSAccuracy)
	assert.Equal(t, models.GPSAccuracyMedium, *c.GPSAccuracy)
}

func TestPreview_CapacityAndGaps(t *testing.T) {
	e := newEnv(t, sequence.NewMemoryAllocator(2), sequence.PolicyReject)
	ctx := context.Background()
	req := &BatchCodeRequest{CropType: "Palm Oil", County: "Nimba County", HarvestDate: "2025-01-05"}

	first, err := e.registration.Preview(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "PAL-NIM-20250105-001", first.BatchCode)
	assert.Equal(t, "reject", first.Policy)

	second, err := e.registration.Preview(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "PAL-NIM-20250105-002", second.BatchCode)

	_, err = e.registration.Preview(ctx, req)
	assert.True(t, errs.IsKind(err, errs.KindCapacityExceeded))

	// Previewed codes are never registered; the gap is expected.
	assert.Zero(t, countCommodities(t, e.db))
}

func TestPreview_Subsequence(t *testing.T) {
	e := newEnv(t, sequence.NewMemoryAllocator(1), sequence.PolicySubsequence)
	ctx := context.Background()
	req := &BatchCodeRequest{CropType: "coffee", County: "Bomi County", HarvestDate: "2024-12-22"}

	_, err := e.registration.Preview(ctx, req)
	require.NoError(t, err)
	widened, err := e.registration.Preview(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "COF-BOM-20241222-001A", widened.BatchCode)
	assert.Equal(t, "A", widened.Overflow)
}

type failingAllocator struct{}

func (failingAllocator) Next(context.Context, batchcode.Key) (int, error) {
	return 0, errs.Unavailable("sequence store unreachable", errors.New("connection refused"))
}

func TestRegister_BackendUnavailable(t *testing.T) {
	e := newEnv(t, failingAllocator{}, sequence.PolicyReject)

	_, err := e.registration.Register(context.Background(), "agent-1", coffeeRequest())
	assert.True(t, errs.IsKind(err, errs.KindUnavailable))
	assert.Zero(t, countCommodities(t, e.db))
}

func TestUpdateStatus_TransitionsAndInspections(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	c, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)

	updated, err := e.commodities.UpdateStatus(ctx, "inspector-1", "Inspector One", c.BatchNumber, &UpdateStatusRequest{
		Status:       "approved",
		QualityGrade: "grade_b",
		Notes:        "Moisture within limits",
		Deficiencies: []string{"bag labels faded"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommodityStatusApproved, updated.Status)
	assert.Equal(t, models.QualityGradeB, updated.QualityGrade)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, "inspector-1", *updated.ReviewedBy)

	require.Len(t, updated.Inspections, 1)
	inspection := updated.Inspections[0]
	assert.Equal(t, models.CommodityStatusApproved, inspection.ResultStatus)
	assert.Equal(t, []string{"bag labels faded"}, []string(inspection.Deficiencies))
	require.NotNil(t, inspection.NextInspectionDate)
	assert.True(t, inspection.NextInspectionDate.After(inspection.InspectionDate))

	_, err = e.commodities.UpdateStatus(ctx, "inspector-1", "Inspector One", c.BatchNumber, &UpdateStatusRequest{Status: "pending"})
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	v, err := e.trace.Verify(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 2, v.Records)

	assert.Equal(t, []string{events.TypeCommodityRegistered, events.TypeCommodityStatusChanged}, e.publisher.types())

	_, err = e.commodities.UpdateStatus(ctx, "inspector-1", "Inspector One", "COF-BOM-20241222-999", &UpdateStatusRequest{Status: "approved"})
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestVerify_DetectsTampering(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	c, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)

	result, err := e.verification.Verify(ctx, c.BatchNumber, nil)
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.True(t, result.Authentic)
	assert.Equal(t, "Coffee", result.CropLabel)
	require.NotNil(t, result.Commodity)
	assert.Equal(t, "Grade A (Premium)", result.Commodity.QualityGrade)

	require.NoError(t, e.db.Model(&models.TraceRecord{}).
		Where("batch_number = ?", c.BatchNumber).
		Update("payload", models.JSONB{"quantity": "5000.00"}).Error)

	result, err = e.verification.Verify(ctx, c.BatchNumber, nil)
	require.NoError(t, err)
	assert.False(t, result.Authentic)
	assert.Equal(t, 0, result.Trace.BrokenAt)
}

func TestVerify_RecordsScans(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	c, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)

	result, err := e.verification.Verify(ctx, c.BatchNumber, &ScanInfo{
		ScannerType:     "Exporter",
		ScanLocation:    "Freeport of Monrovia",
		ScanCoordinates: "6.3, -10.8",
		DeviceInfo:      "scanner/1.0",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ScanCount)

	result, err = e.verification.Verify(ctx, c.BatchNumber, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ScanCount)

	scans, err := e.verification.Scans(ctx, c.BatchNumber, 10)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	byType := map[models.ScannerType]models.QRScan{}
	for _, s := range scans {
		byType[s.ScannerType] = s
	}
	exporter := byType[models.ScannerTypeExporter]
	assert.Equal(t, "Freeport of Monrovia", exporter.ScanLocation)
	assert.Equal(t, "6.300000,-10.800000", exporter.ScanCoordinates)
	assert.Equal(t, "scanner/1.0", exporter.DeviceInfo)
	assert.Contains(t, byType, models.ScannerTypePublic)

	_, err = e.verification.Verify(ctx, c.BatchNumber, &ScanInfo{ScannerType: "tourist"})
	assert.Equal(t, "scanner_type", errs.FieldOf(err))
	_, err = e.verification.Verify(ctx, c.BatchNumber, &ScanInfo{ScanCoordinates: "north"})
	assert.Equal(t, "scan_coordinates", errs.FieldOf(err))

	// Unregistered codes are not logged.
	unknown, err := e.verification.Verify(ctx, "COF-BOM-20241222-042", &ScanInfo{ScannerType: "buyer"})
	require.NoError(t, err)
	assert.Zero(t, unknown.ScanCount)
	var n int64
	require.NoError(t, e.db.Model(&models.QRScan{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestVerify_UnknownAndMalformedCodes(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	result, err := e.verification.Verify(ctx, "COF-BOM-20241222-042", nil)
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.False(t, result.Authentic)
	assert.Nil(t, result.Trace)

	lookup, err := e.verification.Lookup(ctx, "COF-BOM-20241222-042")
	require.NoError(t, err)
	assert.Equal(t, 42, lookup.Sequence)
	assert.False(t, lookup.Registered)

	_, err = e.verification.Lookup(ctx, "cof-bom-2024-1")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestLabelArchiveAndExports(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	c, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)

	doc, err := e.commodities.Label(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, "batch-label-COF-BOM-20241222-001.html", doc.FileName)
	assert.Contains(t, string(doc.Data), "Generated at 2024-12-23 09:00 UTC")

	obj, err := e.commodities.ArchiveLabel(ctx, "agent-1", c.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, "labels/20241222/batch-label-COF-BOM-20241222-001.html", obj.Key)
	stored, err := os.ReadFile(filepath.Join(e.storageRoot, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, doc.Data, stored)

	v, err := e.trace.Verify(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 2, v.Records)

	cert, err := e.commodities.Certificate(ctx, c.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, "certificate-COF-BOM-20241222-001.csv", cert.FileName)
	assert.Contains(t, string(cert.Data), "Batch Number,COF-BOM-20241222-001")

	export, err := e.commodities.Export(ctx, repository.CommodityFilter{County: "Bomi County"})
	require.NoError(t, err)
	assert.Equal(t, "commodities-20241223.xlsx", export.FileName)
	assert.NotEmpty(t, export.Data)

	draft, err := e.commodities.DraftLabel("COF-BOM-20241222-002", label.Draft{CropType: "coffee", County: "Bomi County"})
	require.NoError(t, err)
	assert.Contains(t, string(draft.Data), "COF-BOM-20241222-002")

	_, err = e.commodities.Label(ctx, "COF-BOM-20241222-404")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestList_FiltersAndSearch(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	_, err := e.registration.Register(ctx, "agent-1", coffeeRequest())
	require.NoError(t, err)
	cocoa := coffeeRequest()
	cocoa.CropType = "cocoa"
	cocoa.County = "Nimba County"
	_, err = e.registration.Register(ctx, "agent-1", cocoa)
	require.NoError(t, err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	all, total, err := e.commodities.List(ctx, repository.CommodityFilter{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	nimba, _, err := e.commodities.List(ctx, repository.CommodityFilter{County: "Nimba County"}, params)
	require.NoError(t, err)
	require.Len(t, nimba, 1)
	assert.Equal(t, "COC-NIM-20241222-001", nimba[0].BatchNumber)

	found, _, err := e.commodities.List(ctx, repository.CommodityFilter{Search: "cof-bom"}, params)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, _, err = e.commodities.List(ctx, repository.CommodityFilter{Status: "shipped"}, params)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestFarmerService_ReferenceCodesAndPlotGPS(t *testing.T) {
	e := newEnv(t, nil, sequence.PolicyReject)
	ctx := context.Background()

	farmer, err := e.farmers.CreateFarmer(ctx, &CreateFarmerRequest{FirstName: "Musu", LastName: "Kollie", County: "Bomi County"})
	require.NoError(t, err)
	assert.Regexp(t, `^FRM-[A-Z2-9]{8}$`, farmer.FarmerCode)
	assert.Equal(t, "hectares", farmer.FarmSizeUnit)

	_, err = e.farmers.CreateFarmer(ctx, &CreateFarmerRequest{FirstName: "A", LastName: "B", County: "Bomi County", FarmSize: decimal.NewFromInt(-1)})
	assert.Equal(t, "farm_size", errs.FieldOf(err))

	bare, err := e.farmers.CreatePlot(ctx, &CreatePlotRequest{FarmerID: farmer.ID, PlotName: "Swamp", CropType: "rice", PlotSize: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Regexp(t, `^PLT-[A-Z2-9]{8}$`, bare.PlotCode)

	_, err = e.farmers.PlotGPS(ctx, bare.ID)
	var locErr *geo.LocationError
	require.ErrorAs(t, err, &locErr)
	assert.True(t, errs.IsKind(locErr.Err, errs.KindNotFound))

	mapped, err := e.farmers.CreatePlot(ctx, &CreatePlotRequest{
		FarmerID: farmer.ID,
		PlotName: "Hill",
		CropType: "Coffee",
		PlotSize: decimal.NewFromInt(1),
		Boundary: []PlotPoint{{Lat: 7.1, Lng: -9.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "coffee", mapped.CropType)

	loc, err := e.farmers.PlotGPS(ctx, mapped.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.100000,-9.500000", loc.GPSCoordinates)

	plots, err := e.farmers.ListPlots(ctx, &farmer.ID, "coffee")
	require.NoError(t, err)
	require.Len(t, plots, 1)
	assert.Equal(t, mapped.ID, plots[0].ID)

	_, err = e.farmers.CreatePlot(ctx, &CreatePlotRequest{FarmerID: uuid.New(), PlotName: "X", CropType: "rice", PlotSize: decimal.NewFromInt(1)})
	assert.Equal(t, "farmer_id", errs.FieldOf(err))
}
