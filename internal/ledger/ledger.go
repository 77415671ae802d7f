// internal/ledger/ledger.go
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
)

const (
	ActionRegistered    = "registered"
	ActionStatusChanged = "status_changed"
	ActionLabelArchived = "label_archived"
)

// GenesisHash is the previous hash of every chain's first record.
var GenesisHash = strings.Repeat("0", 64)

type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

type Verification struct {
	BatchNumber string `json:"batch_number"`
	Valid       bool   `json:"valid"`
	Records     int    `json:"records"`
	HeadHash    string `json:"head_hash,omitempty"`
	// BrokenAt is the position of the first record that fails to verify, or -1.
	BrokenAt int    `json:"broken_at"`
	Reason   string `json:"reason,omitempty"`
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Append adds a record to the end of batchNumber's chain. Pass the caller's
// transaction as tx so the record commits or rolls back with the change it
// describes; a nil tx uses the ledger's own connection.
func (l *Ledger) Append(ctx context.Context, tx *gorm.DB, batchNumber, action, actor string, payload map[string]interface{}) (*models.TraceRecord, error) {
	if tx == nil {
		tx = l.db
	}
	tx = tx.WithContext(ctx)

	record := &models.TraceRecord{
		BatchNumber:  batchNumber,
		Action:       action,
		Actor:        actor,
		Payload:      models.JSONB(payload),
		PreviousHash: GenesisHash,
		RecordedAt:   l.now().UTC().Truncate(time.Second),
	}

	var head models.TraceRecord
	err := tx.Where("batch_number = ?", batchNumber).Order("position DESC").Limit(1).Find(&head).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chain head: %w", err)
	}
	if head.ID != 0 {
		record.Position = head.Position + 1
		record.PreviousHash = head.Hash
	}

	record.Hash, err = Hash(record)
	if err != nil {
		return nil, err
	}

	if err := tx.Create(record).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errs.Conflict("trace chain for " + batchNumber + " was extended concurrently")
		}
		return nil, fmt.Errorf("failed to append trace record: %w", err)
	}
	return record, nil
}

func (l *Ledger) History(ctx context.Context, batchNumber string) ([]models.TraceRecord, error) {
	var records []models.TraceRecord
	if err := l.db.WithContext(ctx).Where("batch_number = ?", batchNumber).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load trace records: %w", err)
	}
	return records, nil
}

// Verify recomputes every hash in the chain and checks each link.
func (l *Ledger) Verify(ctx context.Context, batchNumber string) (*Verification, error) {
	records, err := l.History(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	return VerifyChain(batchNumber, records), nil
}

func VerifyChain(batchNumber string, records []models.TraceRecord) *Verification {
	v := &Verification{BatchNumber: batchNumber, Records: len(records), BrokenAt: -1}
	if len(records) == 0 {
		v.Reason = "no trace records"
		return v
	}

	previous := GenesisHash
	for i := range records {
		rec := &records[i]
		switch {
		case rec.Position != i:
			v.BrokenAt, v.Reason = i, fmt.Sprintf("expected position %d, found %d", i, rec.Position)
			return v
		case rec.PreviousHash != previous:
			v.BrokenAt, v.Reason = i, "previous hash does not match"
			return v
		}

		sum, err := Hash(rec)
		if err != nil || sum != rec.Hash {
			v.BrokenAt, v.Reason = i, "record hash does not match its contents"
			return v
		}
		previous = rec.Hash
	}

	v.Valid = true
	v.HeadHash = previous
	return v
}

// Hash is sha256 over the canonical JSON of a record's content. Map keys are
// sorted by encoding/json, which keeps the digest stable across reloads.
func Hash(rec *models.TraceRecord) (string, error) {
	content := map[string]interface{}{
		"batch_number":  rec.BatchNumber,
		"position":      rec.Position,
		"action":        rec.Action,
		"actor":         rec.Actor,
		"payload":       rec.Payload,
		"previous_hash": rec.PreviousHash,
		"recorded_at":   rec.RecordedAt.UTC().Unix(),
	}
	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to encode trace record: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
