// internal/repository/scan_repository.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/models"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) Create(ctx context.Context, s *models.QRScan) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

func (r *ScanRepository) CountByBatchNumber(ctx context.Context, batchNumber string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.QRScan{}).Where("batch_number = ?", batchNumber).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return n, nil
}

// ListByBatchNumber returns the most recent scans first.
func (r *ScanRepository) ListByBatchNumber(ctx context.Context, batchNumber string, limit int) ([]models.QRScan, error) {
	var scans []models.QRScan
	query := r.db.WithContext(ctx).Where("batch_number = ?", batchNumber).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scans).Error; err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return scans, nil
}
