// internal/models/audit.go
package models

import "time"

type AuditLog struct {
	BaseModel
	Actor        string `json:"actor" gorm:"size:100;index"`
	Action       string `json:"action" gorm:"size:150;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string `json:"resource_id" gorm:"size:64;index"`
	NewValues    JSONB  `json:"new_values" gorm:"type:jsonb"`
	Status       int    `json:"status"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}

// TraceRecord is one link of a batch's hash chain. Position 0 is the
// registration record; each later record commits to its predecessor's hash.
type TraceRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BatchNumber  string    `json:"batch_number" gorm:"size:32;not null;uniqueIndex:idx_trace_records_position"`
	Position     int       `json:"position" gorm:"not null;uniqueIndex:idx_trace_records_position"`
	Action       string    `json:"action" gorm:"size:50;not null"`
	Actor        string    `json:"actor" gorm:"size:100"`
	Payload      JSONB     `json:"payload" gorm:"type:jsonb"`
	PreviousHash string    `json:"previous_hash" gorm:"size:64"`
	Hash         string    `json:"hash" gorm:"size:64;not null"`
	RecordedAt   time.Time `json:"recorded_at" gorm:"not null"`
}
