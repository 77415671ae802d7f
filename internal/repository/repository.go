// internal/repository/repository.go
package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/errs"
)

type Repositories struct {
	Commodity *CommodityRepository
	Farmer    *FarmerRepository
	Plot      *PlotRepository
	Scan      *ScanRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Commodity: NewCommodityRepository(db),
		Farmer:    NewFarmerRepository(db),
		Plot:      NewPlotRepository(db),
		Scan:      NewScanRepository(db),
	}
}

// notFound converts gorm's sentinel into a typed error and passes others through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(what + " not found")
	}
	return err
}

func likePattern(search string) string {
	return "%" + search + "%"
}
