package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

// ErrAlreadyQueued is returned by a PostEnqueuer when the post is already
// waiting in the queue for the same scheduled date.
var ErrAlreadyQueued = errors.New("post already queued")

// PostEnqueuer hands due posts to a background worker instead of
// publishing them inline.
type PostEnqueuer interface {
	EnqueueDuePost(ctx context.Context, post *models.ScheduledPost) error
}

type ScanSummary struct {
	PostsProcessed int
	Published      int
	Failed         int
	Skipped        int
	Enqueued       int
	Window         models.DueWindow
}

type DuePostScanner interface {
	CheckScheduledPosts(ctx context.Context) (*ScanSummary, error)
	// ProcessDuePost claims and publishes one post picked up by an
	// earlier scan.
	ProcessDuePost(ctx context.Context, postID int64) error
}

type scanOutcome int

const (
	scanPublished scanOutcome = iota
	scanFailed
	scanSkipped
)

type duePostScanner struct {
	pr       repository.PostRepository
	co       Coordinator
	enq      PostEnqueuer
	window   time.Duration
	claimTTL time.Duration
	now      func() time.Time
}

// NewDuePostScanner builds a scanner. enq may be nil, in which case due
// posts are published inline.
func NewDuePostScanner(pr repository.PostRepository, co Coordinator, cfg config.Scanner, enq PostEnqueuer) DuePostScanner {
	return &duePostScanner{
		pr:       pr,
		co:       co,
		enq:      enq,
		window:   cfg.Window,
		claimTTL: cfg.ClaimTTL,
		now:      time.Now,
	}
}

func (s *duePostScanner) CheckScheduledPosts(ctx context.Context) (*ScanSummary, error) {
	window := models.NewDueWindow(s.now(), s.window)

	posts, err := s.pr.ListDue(ctx, window.Start, window.End)
	if err != nil {
		metrics.ScanRunsTotal.WithLabelValues("error").Inc()
		slog.Error("due posts not listed", "window_start", window.Start, "window_end", window.End, "error", err)
		return nil, systemError("list due posts", err)
	}

	summary := &ScanSummary{PostsProcessed: len(posts), Window: window}
	slog.Info("scanning due posts",
		"count", len(posts),
		"window_start", window.Start,
		"window_end", window.End)

	for _, post := range posts {
		if !post.IsDue(window) {
			summary.Skipped++
			continue
		}

		if s.enq != nil {
			err := s.enq.EnqueueDuePost(ctx, post)
			switch {
			case err == nil:
				summary.Enqueued++
				metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomeEnqueued).Inc()
				continue
			case errors.Is(err, ErrAlreadyQueued):
				summary.Skipped++
				metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
				continue
			default:
				slog.Warn("due post not enqueued, publishing inline", "post_id", post.ID, "error", err)
			}
		}

		switch s.process(ctx, post.ID) {
		case scanPublished:
			summary.Published++
		case scanFailed:
			summary.Failed++
		case scanSkipped:
			summary.Skipped++
		}
	}

	metrics.ScanRunsTotal.WithLabelValues("ok").Inc()
	slog.Info("due posts scanned",
		"processed", summary.PostsProcessed,
		"published", summary.Published,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"enqueued", summary.Enqueued)

	return summary, nil
}

func (s *duePostScanner) ProcessDuePost(ctx context.Context, postID int64) error {
	s.process(ctx, postID)
	return nil
}

// process claims the post, publishes it and records the post-level status.
// Posts claimed by another worker are skipped.
func (s *duePostScanner) process(ctx context.Context, postID int64) scanOutcome {
	log := slog.With("post_id", postID)

	now := s.now().UTC()
	claimed, err := s.pr.Claim(ctx, postID, now, now.Add(-s.claimTTL))
	if err != nil {
		log.Error("due post not claimed", "error", err)
		metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return scanSkipped
	}
	if !claimed {
		log.Info("due post skipped, claimed elsewhere or no longer pending")
		metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return scanSkipped
	}

	status, result := models.PostStatusPublished, scanPublished
	if err := s.co.Publish(ctx, postID); err != nil {
		log.Error("due post publish failed", "error", err)
		status, result = models.PostStatusFailed, scanFailed
	}

	publishedAt := s.now().UTC()
	if err := s.pr.UpdateStatus(context.WithoutCancel(ctx), postID, status, &publishedAt); err != nil {
		log.Error("due post status not saved", "status", status, "error", err)
	}

	if result == scanPublished {
		metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomePublished).Inc()
	} else {
		metrics.ScanPostsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
	log.Info("due post processed", "status", status)
	return result
}
