// internal/services/farmer_service.go
package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/geo"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/utils"
)

const referenceCodeLength = 8

type FarmerService struct {
	repos   *repository.Repositories
	locator *geo.Locator
}

type PlotLocation struct {
	PlotID         uuid.UUID `json:"plot_id"`
	GPSCoordinates string    `json:"gps_coordinates"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
}

// NewFarmerService resolves plot GPS prefill through a Locator bounded by
// timeout and cached for maxAge.
func NewFarmerService(repos *repository.Repositories, timeout, maxAge time.Duration) *FarmerService {
	s := &FarmerService{repos: repos}
	s.locator = geo.NewLocator(geo.SourceFunc(s.plotPosition), timeout, maxAge)
	return s
}

func (s *FarmerService) CreateFarmer(ctx context.Context, req *CreateFarmerRequest) (*models.Farmer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.FarmSize.IsNegative() {
		return nil, errs.Validation("farm_size", "farm size cannot be negative")
	}
	if req.GPSCoordinates != "" {
		if _, err := geo.ParseCoordinates(req.GPSCoordinates); err != nil {
			return nil, err
		}
	}

	code, err := referenceCode("FRM", req.FarmerCode)
	if err != nil {
		return nil, err
	}

	farmer := &models.Farmer{
		FarmerCode:      code,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		PhoneNumber:     req.PhoneNumber,
		IDNumber:        req.IDNumber,
		County:          strings.TrimSpace(req.County),
		District:        req.District,
		Village:         req.Village,
		GPSCoordinates:  req.GPSCoordinates,
		FarmSize:        req.FarmSize.Round(2),
		FarmSizeUnit:    unitOrDefault(req.FarmSizeUnit),
		Status:          models.FarmerStatusActive,
		AgreementSigned: req.AgreementSigned,
	}
	if req.AgreementSigned {
		now := time.Now().UTC()
		farmer.AgreementDate = &now
	}

	if err := s.repos.Farmer.Create(ctx, farmer); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"farmer_id": farmer.FarmerCode,
		"county":    farmer.County,
	}).Info("Farmer registered")
	return farmer, nil
}

func (s *FarmerService) GetFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	return s.repos.Farmer.FindByID(ctx, id)
}

func (s *FarmerService) ListFarmers(ctx context.Context, filter repository.FarmerFilter, params utils.PaginationParams) ([]models.Farmer, int64, error) {
	return s.repos.Farmer.List(ctx, filter, params)
}

func (s *FarmerService) CreatePlot(ctx context.Context, req *CreatePlotRequest) (*models.FarmPlot, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.PlotSize.IsPositive() {
		return nil, errs.Validation("plot_size", "plot size must be greater than zero")
	}

	if _, err := s.repos.Farmer.FindByID(ctx, req.FarmerID); err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, errs.Validation("farmer_id", "farmer does not exist")
		}
		return nil, err
	}

	code, err := referenceCode("PLT", req.PlotCode)
	if err != nil {
		return nil, err
	}

	plot := &models.FarmPlot{
		PlotCode:     code,
		FarmerID:     req.FarmerID,
		PlotName:     strings.TrimSpace(req.PlotName),
		CropType:     batchcode.NormalizeCrop(req.CropType),
		PlotSize:     req.PlotSize.Round(2),
		PlotSizeUnit: unitOrDefault(req.PlotSizeUnit),
		SoilType:     req.SoilType,
		Status:       models.PlotStatusActive,
	}
	if len(req.Boundary) > 0 {
		boundary, err := json.Marshal(req.Boundary)
		if err != nil {
			return nil, err
		}
		plot.GPSCoordinates = string(boundary)
	}

	if err := s.repos.Plot.Create(ctx, plot); err != nil {
		return nil, err
	}
	return plot, nil
}

func (s *FarmerService) GetPlot(ctx context.Context, id uuid.UUID) (*models.FarmPlot, error) {
	return s.repos.Plot.FindByID(ctx, id)
}

func (s *FarmerService) ListPlots(ctx context.Context, farmerID *uuid.UUID, cropType string) ([]models.FarmPlot, error) {
	if cropType != "" {
		cropType = batchcode.NormalizeCrop(cropType)
	}
	return s.repos.Plot.List(ctx, farmerID, cropType)
}

// PlotGPS returns the prefill position for a plot. Failures come back as
// *geo.LocationError; a plot that is missing or has no boundary wraps a
// not-found error.
func (s *FarmerService) PlotGPS(ctx context.Context, id uuid.UUID) (*PlotLocation, error) {
	pos, err := s.locator.Locate(ctx, id.String())
	if err != nil {
		return nil, err
	}
	return &PlotLocation{
		PlotID:         id,
		GPSCoordinates: pos.String(),
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
	}, nil
}

func (s *FarmerService) plotPosition(ctx context.Context, key string) (geo.Position, error) {
	id, err := uuid.Parse(key)
	if err != nil {
		return geo.Position{}, errs.NotFound("farm plot not found")
	}
	plot, err := s.repos.Plot.FindByID(ctx, id)
	if err != nil {
		return geo.Position{}, err
	}
	return geo.PlotCenter(plot.GPSCoordinates)
}

func referenceCode(prefix, supplied string) (string, error) {
	if code := strings.TrimSpace(supplied); code != "" {
		return code, nil
	}
	return utils.GenerateReferenceCode(prefix, referenceCodeLength)
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "hectares"
	}
	return unit
}
