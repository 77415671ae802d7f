// internal/repository/commodity_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/utils"
)

type CommodityRepository struct {
	db *gorm.DB
}

type CommodityFilter struct {
	County string
	Type   string
	Status models.CommodityStatus
	Search string
}

var commoditySortFields = []string{"created_at", "harvest_date", "batch_number", "quantity", "county", "status"}

func NewCommodityRepository(db *gorm.DB) *CommodityRepository {
	return &CommodityRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *CommodityRepository) WithTx(tx *gorm.DB) *CommodityRepository {
	return &CommodityRepository{db: tx}
}

// Create inserts c. A batch number that is already registered comes back as
// errs.KindDuplicate whether the pre-check or the unique index catches it.
func (r *CommodityRepository) Create(ctx context.Context, c *models.Commodity) error {
	exists, err := r.ExistsByBatchNumber(ctx, c.BatchNumber)
	if err != nil {
		return err
	}
	if exists {
		return duplicateBatch(c.BatchNumber)
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return duplicateBatch(c.BatchNumber)
		}
		return fmt.Errorf("failed to create commodity: %w", err)
	}
	return nil
}

func duplicateBatch(batchNumber string) error {
	return errs.Duplicate("batch number " + batchNumber + " is already registered")
}

func (r *CommodityRepository) ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Commodity{}).Where("batch_number = ?", batchNumber).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check batch number: %w", err)
	}
	return count > 0, nil
}

func (r *CommodityRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*models.Commodity, error) {
	var c models.Commodity
	err := r.db.WithContext(ctx).
		Preload("Inspections", func(db *gorm.DB) *gorm.DB {
			return db.Order("inspection_date DESC")
		}).
		First(&c, "batch_number = ?", batchNumber).Error
	if err != nil {
		return nil, notFound(err, "commodity")
	}
	return &c, nil
}

func (r *CommodityRepository) List(ctx context.Context, filter CommodityFilter, params utils.PaginationParams) ([]models.Commodity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Commodity{})

	if filter.County != "" {
		query = query.Where("county = ?", filter.County)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(batch_number) LIKE ? OR LOWER(name) LIKE ? OR LOWER(county) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count commodities: %w", err)
	}

	var commodities []models.Commodity
	query = utils.ApplySort(query, params, commoditySortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&commodities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list commodities: %w", err)
	}

	return commodities, total, nil
}

// UpdateReview writes only the fields a review may change.
func (r *CommodityRepository) UpdateReview(ctx context.Context, c *models.Commodity) error {
	err := r.db.WithContext(ctx).Model(c).Select("Status", "QualityGrade", "ReviewedBy", "ReviewedAt", "ReviewNotes", "UpdatedAt").Updates(c).Error
	if err != nil {
		return fmt.Errorf("failed to update commodity review: %w", err)
	}
	return nil
}

func (r *CommodityRepository) AddInspection(ctx context.Context, inspection *models.Inspection) error {
	if err := r.db.WithContext(ctx).Create(inspection).Error; err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}
	return nil
}
