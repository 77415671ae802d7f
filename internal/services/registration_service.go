// internal/services/registration_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/events"
	"github.com/lacra/agritrace-backend/internal/geo"
	"github.com/lacra/agritrace-backend/internal/ledger"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/sequence"
)

type RegistrationService struct {
	db        *gorm.DB
	repos     *repository.Repositories
	issuer    *sequence.Issuer
	ledger    *ledger.Ledger
	publisher events.Publisher
	now       func() time.Time
}

func NewRegistrationService(db *gorm.DB, repos *repository.Repositories, issuer *sequence.Issuer, trace *ledger.Ledger, publisher events.Publisher) *RegistrationService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &RegistrationService{
		db:        db,
		repos:     repos,
		issuer:    issuer,
		ledger:    trace,
		publisher: publisher,
		now:       time.Now,
	}
}

// Preview allocates a number and returns the provisional code. A code that
// is never registered leaves a gap in its key's sequence.
func (s *RegistrationService) Preview(ctx context.Context, req *BatchCodeRequest) (*BatchCodePreview, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	harvest, err := ParseHarvestDate(req.HarvestDate)
	if err != nil {
		return nil, err
	}

	key, err := batchcode.KeyFor(req.CropType, req.County, harvest)
	if err != nil {
		return nil, err
	}

	code, err := s.issuer.Issue(ctx, key)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_code": code.String(),
		"key":        key.String(),
	}).Info("Provisional batch code issued")

	return &BatchCodePreview{
		BatchCode:  code.String(),
		CropPrefix: code.CropPrefix,
		CountyCode: code.CountyCode,
		DateStamp:  code.DateStamp,
		Sequence:   code.Sequence,
		Overflow:   code.Overflow,
		Policy:     string(s.issuer.Policy()),
	}, nil
}

// Register persists a commodity under a new or supplied batch code. A
// supplied code must describe the same crop, county and harvest date as the
// record. Duplicates are reported, never retried under the same code.
func (s *RegistrationService) Register(ctx context.Context, actor string, req *RegisterCommodityRequest) (*models.Commodity, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, errs.Validation("quantity", "quantity must be greater than zero")
	}

	harvest, err := ParseHarvestDate(req.HarvestDate)
	if err != nil {
		return nil, err
	}
	key, err := batchcode.KeyFor(req.CropType, req.County, harvest)
	if err != nil {
		return nil, err
	}

	commodity := &models.Commodity{
		Name:         strings.TrimSpace(req.Name),
		Type:         batchcode.NormalizeCrop(req.CropType),
		Quantity:     req.Quantity.Round(2),
		Unit:         req.Unit,
		QualityGrade: models.QualityGrade(req.QualityGrade),
		County:       strings.TrimSpace(req.County),
		District:     req.District,
		HarvestDate:  harvest,
		Status:       models.CommodityStatusRegistered,
		RegisteredBy: actor,
	}
	if commodity.Name == "" {
		commodity.Name = batchcode.CropLabel(req.CropType)
	}
	if req.Notes != "" {
		commodity.Notes = &req.Notes
	}

	if err := s.attachFarmer(ctx, commodity, req); err != nil {
		return nil, err
	}
	if err := s.attachLocation(ctx, commodity, req); err != nil {
		return nil, err
	}

	code, err := s.resolveCode(ctx, key, req.BatchNumber)
	if err != nil {
		return nil, err
	}
	commodity.BatchNumber = code.String()

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := s.repos.Commodity.WithTx(tx).Create(ctx, commodity); err != nil {
			return err
		}
		_, err := s.ledger.Append(ctx, tx, commodity.BatchNumber, ledger.ActionRegistered, actor, registrationPayload(commodity))
		return err
	})
	if err != nil {
		if errs.IsKind(err, errs.KindDuplicate) {
			logrus.WithField("batch_number", commodity.BatchNumber).Warn("Duplicate batch number rejected")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_number": commodity.BatchNumber,
		"county":       commodity.County,
		"type":         commodity.Type,
		"actor":        actor,
	}).Info("Commodity registered")

	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeCommodityRegistered,
		BatchNumber: commodity.BatchNumber,
		Status:      string(commodity.Status),
		Actor:       actor,
		OccurredAt:  s.now().UTC(),
		Data: map[string]interface{}{
			"name":     commodity.Name,
			"type":     commodity.Type,
			"county":   commodity.County,
			"quantity": commodity.Quantity.StringFixed(2),
			"unit":     commodity.Unit,
		},
	})

	return commodity, nil
}

func (s *RegistrationService) resolveCode(ctx context.Context, key batchcode.Key, supplied string) (batchcode.BatchCode, error) {
	if supplied == "" {
		return s.issuer.Issue(ctx, key)
	}

	code, err := batchcode.Parse(supplied)
	if err != nil {
		return batchcode.BatchCode{}, err
	}
	got := code.Key()
	if got.CropPrefix != key.CropPrefix || got.CountyCode != key.CountyCode || got.DateStamp != key.DateStamp {
		return batchcode.BatchCode{}, errs.Validation("batch_number",
			fmt.Sprintf("%s does not match crop, county and harvest date (expected %s-%s-%s-NNN)", supplied, key.CropPrefix, key.CountyCode, key.DateStamp))
	}
	return code, nil
}

func (s *RegistrationService) attachFarmer(ctx context.Context, c *models.Commodity, req *RegisterCommodityRequest) error {
	if req.FarmerID == nil {
		if name := strings.TrimSpace(req.FarmerName); name != "" {
			c.FarmerName = &name
		}
		return nil
	}

	farmer, err := s.repos.Farmer.FindByID(ctx, *req.FarmerID)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return errs.Validation("farmer_id", "farmer does not exist")
		}
		return err
	}
	name := farmer.FullName()
	c.FarmerID = &farmer.ID
	c.FarmerName = &name
	return nil
}

// attachLocation stores explicit coordinates, or falls back to the first
// point of the selected plot's boundary.
func (s *RegistrationService) attachLocation(ctx context.Context, c *models.Commodity, req *RegisterCommodityRequest) error {
	var plot *models.FarmPlot
	if req.PlotID != nil {
		p, err := s.repos.Plot.FindByID(ctx, *req.PlotID)
		if err != nil {
			if errs.IsKind(err, errs.KindNotFound) {
				return errs.Validation("plot_id", "farm plot does not exist")
			}
			return err
		}
		if c.FarmerID != nil && p.FarmerID != *c.FarmerID {
			return errs.Validation("plot_id", "farm plot belongs to another farmer")
		}
		plot = p
		c.PlotID = &p.ID
	}

	raw := req.coordinates()
	var pos geo.Position
	switch {
	case raw != "":
		parsed, err := geo.ParseCoordinates(raw)
		if err != nil {
			return err
		}
		pos = parsed
	case plot != nil && plot.GPSCoordinates != "":
		center, err := geo.PlotCenter(plot.GPSCoordinates)
		if err != nil {
			return err
		}
		pos = center
	default:
		return nil
	}

	coords := pos.String()
	c.GPSCoordinates = &coords
	if req.GPSAccuracy != "" {
		accuracy := models.GPSAccuracy(req.GPSAccuracy)
		c.GPSAccuracy = &accuracy
	}
	return nil
}

func registrationPayload(c *models.Commodity) map[string]interface{} {
	payload := map[string]interface{}{
		"name":          c.Name,
		"type":          c.Type,
		"quantity":      c.Quantity.StringFixed(2),
		"unit":          c.Unit,
		"quality_grade": string(c.QualityGrade),
		"county":        c.County,
		"harvest_date":  c.HarvestDate.Format("2006-01-02"),
	}
	if c.FarmerName != nil {
		payload["farmer_name"] = *c.FarmerName
	}
	if c.GPSCoordinates != nil {
		payload["gps_coordinates"] = *c.GPSCoordinates
	}
	return payload
}
