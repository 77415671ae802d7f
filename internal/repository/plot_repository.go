// internal/repository/plot_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
)

type PlotRepository struct {
	db *gorm.DB
}

func NewPlotRepository(db *gorm.DB) *PlotRepository {
	return &PlotRepository{db: db}
}

func (r *PlotRepository) Create(ctx context.Context, p *models.FarmPlot) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errs.Duplicate("farm plot " + p.PlotCode + " already exists")
		}
		return fmt.Errorf("failed to create farm plot: %w", err)
	}
	return nil
}

func (r *PlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FarmPlot, error) {
	var p models.FarmPlot
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "farm plot")
	}
	return &p, nil
}

// List returns plots, optionally restricted to one farmer.
func (r *PlotRepository) List(ctx context.Context, farmerID *uuid.UUID, cropType string) ([]models.FarmPlot, error) {
	query := r.db.WithContext(ctx).Model(&models.FarmPlot{})
	if farmerID != nil {
		query = query.Where("farmer_id = ?", *farmerID)
	}
	if cropType != "" {
		query = query.Where("crop_type = ?", cropType)
	}

	var plots []models.FarmPlot
	if err := query.Order("plot_name ASC").Find(&plots).Error; err != nil {
		return nil, fmt.Errorf("failed to list farm plots: %w", err)
	}
	return plots, nil
}
