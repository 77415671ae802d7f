// internal/services/commodity_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/events"
	"github.com/lacra/agritrace-backend/internal/label"
	"github.com/lacra/agritrace-backend/internal/ledger"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/storage"
	"github.com/lacra/agritrace-backend/internal/utils"
)

const (
	nextInspectionInterval = 30 * 24 * time.Hour
	maxExportRows          = 5000
)

type CommodityService struct {
	db        *gorm.DB
	repos     *repository.Repositories
	ledger    *ledger.Ledger
	store     storage.Store
	publisher events.Publisher
	labelCfg  config.LabelConfig
	now       func() time.Time
}

type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

func NewCommodityService(db *gorm.DB, repos *repository.Repositories, trace *ledger.Ledger, store storage.Store, publisher events.Publisher, labelCfg config.LabelConfig) *CommodityService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &CommodityService{
		db:        db,
		repos:     repos,
		ledger:    trace,
		store:     store,
		publisher: publisher,
		labelCfg:  labelCfg,
		now:       time.Now,
	}
}

func (s *CommodityService) List(ctx context.Context, filter repository.CommodityFilter, params utils.PaginationParams) ([]models.Commodity, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errs.Validation("status", "unknown commodity status")
	}
	return s.repos.Commodity.List(ctx, filter, params)
}

func (s *CommodityService) Get(ctx context.Context, batchNumber string) (*models.Commodity, error) {
	return s.repos.Commodity.FindByBatchNumber(ctx, batchNumber)
}

// UpdateStatus applies a review decision. Every accepted change records an
// inspection and extends the batch's trace chain in the same transaction.
func (s *CommodityService) UpdateStatus(ctx context.Context, actor, actorName, batchNumber string, req *UpdateStatusRequest) (*models.Commodity, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	commodity, err := s.repos.Commodity.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}

	next := models.CommodityStatus(req.Status)
	previous := commodity.Status
	if !previous.CanTransitionTo(next) {
		return nil, errs.Conflict(fmt.Sprintf("cannot move %s from %s to %s", batchNumber, previous, next))
	}

	now := s.now().UTC()
	grade := commodity.QualityGrade
	if req.QualityGrade != "" {
		grade = models.QualityGrade(req.QualityGrade)
	}

	commodity.Status = next
	commodity.QualityGrade = grade
	commodity.ReviewedBy = &actor
	commodity.ReviewedAt = &now
	if req.Notes != "" {
		commodity.ReviewNotes = &req.Notes
	}

	nextInspection := now.Add(nextInspectionInterval)
	if req.NextInspectionDate != nil {
		nextInspection = *req.NextInspectionDate
	}
	inspection := &models.Inspection{
		CommodityID:        commodity.ID,
		InspectorID:        actor,
		InspectorName:      actorName,
		InspectionDate:     now,
		QualityGrade:       grade,
		ResultStatus:       next,
		Notes:              req.Notes,
		Deficiencies:       req.Deficiencies,
		Recommendations:    req.Recommendations,
		NextInspectionDate: &nextInspection,
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		repo := s.repos.Commodity.WithTx(tx)
		if err := repo.UpdateReview(ctx, commodity); err != nil {
			return err
		}
		if err := repo.AddInspection(ctx, inspection); err != nil {
			return err
		}
		_, err := s.ledger.Append(ctx, tx, batchNumber, ledger.ActionStatusChanged, actor, map[string]interface{}{
			"from":          string(previous),
			"to":            string(next),
			"quality_grade": string(grade),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_number": batchNumber,
		"from":         previous,
		"to":           next,
		"actor":        actor,
	}).Info("Commodity status updated")

	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeCommodityStatusChanged,
		BatchNumber: batchNumber,
		Status:      string(next),
		Actor:       actor,
		OccurredAt:  now,
		Data:        map[string]interface{}{"previous_status": string(previous)},
	})

	return s.repos.Commodity.FindByBatchNumber(ctx, batchNumber)
}

func (s *CommodityService) labelOptions(draft *label.Draft) label.Options {
	return label.Options{
		VerifyBaseURL: s.labelCfg.VerifyBaseURL,
		Organization:  s.labelCfg.Organization,
		Clock:         s.now,
		Draft:         draft,
	}
}

func (s *CommodityService) Label(ctx context.Context, batchNumber string) (*Document, error) {
	commodity, err := s.repos.Commodity.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}

	html, err := label.Render(commodity.BatchNumber, commodity, s.labelOptions(nil))
	if err != nil {
		return nil, err
	}
	return &Document{FileName: label.FileName(commodity.BatchNumber), ContentType: "text/html; charset=utf-8", Data: html}, nil
}

// DraftLabel renders a label for a provisional code that has no record yet.
func (s *CommodityService) DraftLabel(code string, draft label.Draft) (*Document, error) {
	html, err := label.Render(code, nil, s.labelOptions(&draft))
	if err != nil {
		return nil, err
	}
	return &Document{FileName: label.FileName(code), ContentType: "text/html; charset=utf-8", Data: html}, nil
}

// ArchiveLabel renders the current label and stores it alongside the batch's
// other labels for its harvest date.
func (s *CommodityService) ArchiveLabel(ctx context.Context, actor, batchNumber string) (*storage.Object, error) {
	doc, err := s.Label(ctx, batchNumber)
	if err != nil {
		return nil, err
	}

	code, err := batchcode.Parse(batchNumber)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Put(ctx, storage.LabelKey(code.DateStamp, doc.FileName), "text/html", doc.Data)
	if err != nil {
		return nil, errs.Unavailable("label storage unavailable", err)
	}

	if _, err := s.ledger.Append(ctx, nil, batchNumber, ledger.ActionLabelArchived, actor, map[string]interface{}{
		"key":  obj.Key,
		"size": fmt.Sprint(obj.Size),
	}); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeLabelArchived,
		BatchNumber: batchNumber,
		Actor:       actor,
		OccurredAt:  s.now().UTC(),
		Data:        map[string]interface{}{"url": obj.URL},
	})
	return obj, nil
}

func (s *CommodityService) Certificate(ctx context.Context, batchNumber string) (*Document, error) {
	commodity, err := s.repos.Commodity.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}

	data, err := label.CertificateCSV(commodity)
	if err != nil {
		return nil, err
	}
	return &Document{FileName: label.CertificateFileName(batchNumber), ContentType: "text/csv", Data: data}, nil
}

func (s *CommodityService) Export(ctx context.Context, filter repository.CommodityFilter) (*Document, error) {
	params := utils.PaginationParams{Page: 1, Limit: maxExportRows, Sort: "created_at", Order: "desc"}
	records, _, err := s.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	data, err := label.CommodityWorkbook(records)
	if err != nil {
		return nil, err
	}
	return &Document{
		FileName:    fmt.Sprintf("commodities-%s.xlsx", s.now().Format("20060102")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}
