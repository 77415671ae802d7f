// internal/sequence/backend.go
package sequence

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/config"
)

// NewAllocator builds the allocator named by cfg.Backend. db is required for
// postgres and rdb for redis. Every backend allows the full 001-999 range.
func NewAllocator(cfg config.SequenceConfig, db *gorm.DB, rdb redis.Scripter) (Allocator, error) {
	switch cfg.Backend {
	case "postgres", "":
		if db == nil {
			return nil, fmt.Errorf("postgres sequence backend needs a database")
		}
		return NewSQLAllocator(db, 0), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis sequence backend needs a redis client")
		}
		return NewRedisAllocator(rdb, cfg.KeyPrefix, cfg.Retention(), 0), nil
	case "memory":
		return NewMemoryAllocator(0), nil
	default:
		return nil, fmt.Errorf("unknown sequence backend %q", cfg.Backend)
	}
}
