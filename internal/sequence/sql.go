// internal/sequence/sql.go
package sequence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
)

// The upsert takes the row lock and bumps the counter in one statement. The
// WHERE clause suppresses the update once the limit is reached, in which case
// nothing is returned.
const upsertSequenceSQL = `
INSERT INTO batch_sequences (crop_prefix, county_code, date_stamp, overflow, last_value, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT (crop_prefix, county_code, date_stamp, overflow)
DO UPDATE SET last_value = batch_sequences.last_value + 1, updated_at = excluded.updated_at
WHERE batch_sequences.last_value < ?
RETURNING last_value`

// SQLAllocator keeps one batch_sequences row per composite key. It works on
// PostgreSQL and SQLite, both of which support ON CONFLICT ... RETURNING.
type SQLAllocator struct {
	db    *gorm.DB
	limit int
}

func NewSQLAllocator(db *gorm.DB, limit int) *SQLAllocator {
	return &SQLAllocator{db: db, limit: limitOrDefault(limit)}
}

func (a *SQLAllocator) Next(ctx context.Context, key batchcode.Key) (int, error) {
	var row struct {
		LastValue int
	}

	now := time.Now().UTC()
	result := a.db.WithContext(ctx).Raw(upsertSequenceSQL,
		key.CropPrefix, key.CountyCode, key.DateStamp, key.Overflow, now, now, a.limit,
	).Scan(&row)
	if result.Error != nil {
		return 0, errs.Unavailable("sequence store unreachable", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, exhausted(key, a.limit)
	}
	return row.LastValue, nil
}
