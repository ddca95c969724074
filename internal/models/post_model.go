package models

import "time"

type ScheduledPost struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Content       string     `db:"content" json:"content"`
	Title         string     `db:"title" json:"title,omitempty"`
	Description   string     `db:"description" json:"description,omitempty"`
	MediaURL      string     `db:"media_url" json:"media_url,omitempty"`
	Link          string     `db:"link" json:"link,omitempty"`
	Thumbnail     string     `db:"thumbnail" json:"thumbnail,omitempty"`
	PostType      PostType   `db:"post_type" json:"post_type"`
	ScheduledDate time.Time  `db:"scheduled_date" json:"scheduled_date"`
	Status        PostStatus `db:"status" json:"status"`
	PublishedDate *time.Time `db:"published_date" json:"published_date,omitempty"`
	ClaimedAt     *time.Time `db:"claimed_at" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	Platforms []*PostPlatform `db:"-" json:"platforms,omitempty"`
}

type PostPlatform struct {
	ID             int64          `db:"id" json:"id"`
	PostID         int64          `db:"post_id" json:"post_id"`
	PlatformID     PlatformID     `db:"platform_id" json:"platform_id"`
	Status         PlatformStatus `db:"status" json:"status"`
	ErrorMessage   string         `db:"error_message" json:"error_message,omitempty"`
	ConnectionID   *int64         `db:"connection_id" json:"connection_id,omitempty"`
	PlatformPostID string         `db:"platform_post_id" json:"platform_post_id,omitempty"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	// Connection is populated by joined reads and is nil when the row has
	// no usable connection for the post's owner.
	Connection *PlatformConnection `db:"-" json:"-"`
}

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusPublished, PostStatusFailed:
		return true
	}
	return false
}

type PlatformStatus string

const (
	PlatformStatusPending   PlatformStatus = "pending"
	PlatformStatusPublished PlatformStatus = "published"
	PlatformStatusFailed    PlatformStatus = "failed"
)

// DueWindow is the inclusive tolerance band around a scan instant.
type DueWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewDueWindow(now time.Time, tolerance time.Duration) DueWindow {
	now = now.UTC()
	return DueWindow{Start: now.Add(-tolerance), End: now.Add(tolerance)}
}

func (w DueWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// IsDue reports whether the scanner should pick the post up in w.
func (p *ScheduledPost) IsDue(w DueWindow) bool {
	return p.Status == PostStatusPending && w.Contains(p.ScheduledDate)
}
