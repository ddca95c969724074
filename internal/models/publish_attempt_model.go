package models

import "time"

type PublishAttempt struct {
	ID             int64          `db:"id" json:"id"`
	PostID         int64          `db:"post_id" json:"post_id"`
	PostPlatformID int64          `db:"post_platform_id" json:"post_platform_id"`
	PlatformID     PlatformID     `db:"platform_id" json:"platform_id"`
	Status         PlatformStatus `db:"status" json:"status"`
	ErrorMessage   string         `db:"error_message" json:"error_message,omitempty"`
	DurationMs     int64          `db:"duration_ms" json:"duration_ms"`
	AttemptedAt    time.Time      `db:"attempted_at" json:"attempted_at"`
}
