package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	w := NewDueWindow(now, 5*time.Minute)

	assert.Equal(t, now.Add(-5*time.Minute), w.Start)
	assert.Equal(t, now.Add(5*time.Minute), w.End)

	tests := []struct {
		name   string
		at     time.Time
		status PostStatus
		due    bool
	}{
		{"just inside upper bound", now.Add(4*time.Minute + 59*time.Second), PostStatusPending, true},
		{"just past upper bound", now.Add(5*time.Minute + time.Second), PostStatusPending, false},
		{"upper bound inclusive", now.Add(5 * time.Minute), PostStatusPending, true},
		{"lower bound inclusive", now.Add(-5 * time.Minute), PostStatusPending, true},
		{"recently passed", now.Add(-3 * time.Minute), PostStatusPending, true},
		{"too old", now.Add(-5*time.Minute - time.Second), PostStatusPending, false},
		{"published at now", now, PostStatusPublished, false},
		{"draft at now", now, PostStatusDraft, false},
		{"failed at now", now, PostStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &ScheduledPost{ScheduledDate: tt.at, Status: tt.status}
			assert.Equal(t, tt.due, post.IsDue(w))
		})
	}
}

func TestNewDueWindow_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2024, 6, 1, 19, 0, 0, 0, loc)

	w := NewDueWindow(now, time.Minute)

	assert.Equal(t, time.UTC, w.Start.Location())
	assert.True(t, w.Contains(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
}

func TestPlatformConnection_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	assert.False(t, (&PlatformConnection{}).Expired(now))
	assert.True(t, (&PlatformConnection{ExpiresAt: &past}).Expired(now))
	assert.True(t, (&PlatformConnection{ExpiresAt: &now}).Expired(now))
	assert.False(t, (&PlatformConnection{ExpiresAt: &future}).Expired(now))
}

func TestPostType_AllowsPlatform(t *testing.T) {
	assert.True(t, PostTypeText.AllowsPlatform(PlatformX))
	assert.False(t, PostTypeText.AllowsPlatform(PlatformInstagram))
	assert.True(t, PostTypeMedia.AllowsPlatform(PlatformInstagram))
	assert.True(t, PostTypeArticle.AllowsPlatform(PlatformLinkedIn))
	assert.False(t, PostTypeArticle.AllowsPlatform(PlatformFacebook))
	assert.True(t, PostTypeVideo.AllowsPlatform(PlatformYouTube))
	assert.False(t, PostType("story").Valid())
}

func TestPlatformID_Valid(t *testing.T) {
	for _, p := range Platforms {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, PlatformID("tiktok").Valid())
}
