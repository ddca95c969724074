package transfer

import "time"

// PostCreation is the body accepted when creating or editing a post.
type PostCreation struct {
	Content       string    `json:"content"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	MediaURL      string    `json:"media_url"`
	Link          string    `json:"link"`
	Thumbnail     string    `json:"thumbnail"`
	PostType      string    `json:"post_type"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	Platforms     []string  `json:"platforms"`
}

type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScanResponse is returned by the scheduled-posts cron hook.
type ScanResponse struct {
	Success        bool       `json:"success"`
	PostsProcessed int        `json:"postsProcessed"`
	Published      int        `json:"published"`
	Failed         int        `json:"failed"`
	Skipped        int        `json:"skipped"`
	Enqueued       int        `json:"enqueued"`
	TimeWindow     TimeWindow `json:"timeWindow"`
}
