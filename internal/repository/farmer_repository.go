// internal/repository/farmer_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type FarmerRepository struct {
	db *gorm.DB
}

type FarmerFilter struct {
	County string
	Status models.FarmerStatus
	Search string
}

func NewFarmerRepository(db *gorm.DB) *FarmerRepository {
	return &FarmerRepository{db: db}
}

func (r *FarmerRepository) Create(ctx context.Context, f *models.Farmer) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errs.Duplicate("farmer " + f.FarmerCode + " already exists")
		}
		return fmt.Errorf("failed to create farmer: %w", err)
	}
	return nil
}

func (r *FarmerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var f models.Farmer
	if err := r.db.WithContext(ctx).Preload("Plots").First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "farmer")
	}
	return &f, nil
}

func (r *FarmerRepository) List(ctx context.Context, filter FarmerFilter, params utils.PaginationParams) ([]models.Farmer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Farmer{})

	if filter.County != "" {
		query = query.Where("county = ?", filter.County)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(farmer_code) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count farmers: %w", err)
	}

	var farmers []models.Farmer
	query = utils.ApplySort(query, params, []string{"created_at", "last_name", "county"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&farmers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list farmers: %w", err)
	}
	return farmers, total, nil
}
