// internal/ledger/ledger_test.go
package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/testutil"
)

const batch = "COF-BOM-20241222-001"

func newLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	l := New(db)
	l.now = func() time.Time { return time.Date(2024, 12, 22, 10, 15, 30, 999, time.UTC) }
	return l, db
}

func TestAppend_LinksRecords(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	genesis, err := l.Append(ctx, nil, batch, ActionRegistered, "agent-1", map[string]interface{}{"quantity": "500.00"})
	require.NoError(t, err)
	assert.Equal(t, 0, genesis.Position)
	assert.Equal(t, GenesisHash, genesis.PreviousHash)
	assert.Len(t, genesis.Hash, 64)
	assert.Equal(t, 0, genesis.RecordedAt.Nanosecond())

	next, err := l.Append(ctx, nil, batch, ActionStatusChanged, "inspector-1", map[string]interface{}{"from": "registered", "to": "approved"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Position)
	assert.Equal(t, genesis.Hash, next.PreviousHash)

	other, err := l.Append(ctx, nil, "COC-NIM-20241222-001", ActionRegistered, "agent-2", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Position)

	v, err := l.Verify(ctx, batch)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 2, v.Records)
	assert.Equal(t, next.Hash, v.HeadHash)
	assert.Equal(t, -1, v.BrokenAt)
}

func TestHash_StableAcrossReload(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	appended, err := l.Append(ctx, nil, batch, ActionRegistered, "agent-1", map[string]interface{}{
		"name":     "Coffee",
		"quantity": "500.00",
	})
	require.NoError(t, err)

	history, err := l.History(ctx, batch)
	require.NoError(t, err)
	require.Len(t, history, 1)

	reloaded := history[0]
	if diff := cmp.Diff(appended.Payload, reloaded.Payload); diff != "" {
		t.Fatalf("payload changed on reload (-want +got):\n%s", diff)
	}
	sum, err := Hash(&reloaded)
	require.NoError(t, err)
	assert.Equal(t, appended.Hash, sum)
}

func TestVerify_DetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(db *gorm.DB) error
		broken int
	}{
		{
			name: "actor edited",
			tamper: func(db *gorm.DB) error {
				return db.Model(&models.TraceRecord{}).Where("batch_number = ? AND position = 1", batch).
					Update("actor", "someone-else").Error
			},
			broken: 1,
		},
		{
			name: "record removed",
			tamper: func(db *gorm.DB) error {
				return db.Where("batch_number = ? AND position = 1", batch).Delete(&models.TraceRecord{}).Error
			},
			broken: 1,
		},
		{
			name: "hash rewritten",
			tamper: func(db *gorm.DB) error {
				return db.Model(&models.TraceRecord{}).Where("batch_number = ? AND position = 0", batch).
					Update("hash", GenesisHash).Error
			},
			broken: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, db := newLedger(t)
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				_, err := l.Append(ctx, nil, batch, ActionStatusChanged, "agent-1", map[string]interface{}{"step": i})
				require.NoError(t, err)
			}

			require.NoError(t, tt.tamper(db))

			v, err := l.Verify(ctx, batch)
			require.NoError(t, err)
			assert.False(t, v.Valid)
			assert.Equal(t, tt.broken, v.BrokenAt)
			assert.NotEmpty(t, v.Reason)
		})
	}
}

func TestVerify_EmptyChain(t *testing.T) {
	l, _ := newLedger(t)

	v, err := l.Verify(context.Background(), batch)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Zero(t, v.Records)
}

func TestAppend_RollsBackWithTransaction(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()

	err := database.WithTransaction(db, func(tx *gorm.DB) error {
		if _, err := l.Append(ctx, tx, batch, ActionRegistered, "agent-1", nil); err != nil {
			return err
		}
		return errs.Duplicate("batch number already registered")
	})
	require.Error(t, err)

	history, err := l.History(ctx, batch)
	require.NoError(t, err)
	assert.Empty(t, history)
}
