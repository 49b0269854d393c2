package domain

import "time"

// StoredSignature is a user's reusable signature image, independent of any
// one contract. At most one active signature exists per user; saves are
// upserts that bump the usage counter.
type StoredSignature struct {
	ID         int32      `json:"id"`
	UserID     int32      `json:"user_id"`
	Payload    string     `json:"payload"` // base64 image data
	Width      int32      `json:"width"`
	Height     int32      `json:"height"`
	Format     string     `json:"format"`
	CapturedAt time.Time  `json:"captured_at"`
	UsageCount int32      `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedOn  time.Time  `json:"created_on"`
}
