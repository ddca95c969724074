package models

import (
	"time"
)

type PlatformConnection struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	PlatformID   PlatformID `db:"platform_id" json:"platform_id"`
	AccountID    string     `db:"account_id" json:"account_id"`
	AccountName  string     `db:"account_name" json:"account_name"`
	AccessToken  string     `db:"access_token" json:"-"`
	RefreshToken string     `db:"refresh_token" json:"-"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Expired reports whether the stored token is past its expiry at now.
// Connections without an expiry never expire.
func (c *PlatformConnection) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
