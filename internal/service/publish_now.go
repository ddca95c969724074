package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

type PublishNowService interface {
	// PublishNow publishes a post immediately regardless of its scheduled
	// date. The post is marked published before the platforms are called
	// and failed if the attempt itself errors.
	PublishNow(ctx context.Context, postID int64) error
}

type publishNowService struct {
	pr  repository.PostRepository
	ppr repository.PostPlatformRepository
	co  Coordinator
	now func() time.Time
}

func NewPublishNowService(pr repository.PostRepository, ppr repository.PostPlatformRepository, co Coordinator) PublishNowService {
	return &publishNowService{
		pr:  pr,
		ppr: ppr,
		co:  co,
		now: time.Now,
	}
}

func (s *publishNowService) PublishNow(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		metrics.PublishNowTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return systemError("load post", err)
	}
	if post == nil {
		metrics.PublishNowTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrNotFound
	}

	if err := s.run(ctx, post); err != nil {
		slog.Error("publish now failed", "post_id", postID, "error", err)
		metrics.PublishNowTotal.WithLabelValues(metrics.OutcomeFailed).Inc()

		failedAt := s.now().UTC()
		if werr := s.pr.UpdateStatus(context.WithoutCancel(ctx), postID, models.PostStatusFailed, &failedAt); werr != nil {
			slog.Error("post status not saved", "post_id", postID, "status", models.PostStatusFailed, "error", werr)
			return errors.Join(err, systemError("mark post failed", werr))
		}
		return err
	}

	metrics.PublishNowTotal.WithLabelValues(metrics.OutcomePublished).Inc()
	slog.Info("publish now completed", "post_id", postID)
	return nil
}

func (s *publishNowService) run(ctx context.Context, post *models.ScheduledPost) error {
	platforms, err := s.ppr.ListByPostID(ctx, post.ID)
	if err != nil {
		return systemError("load post platforms", err)
	}
	if len(platforms) == 0 {
		return ErrNoPlatformsConfigured
	}

	publishedAt := s.now().UTC()
	if err := s.pr.UpdateStatus(ctx, post.ID, models.PostStatusPublished, &publishedAt); err != nil {
		return systemError("mark post published", err)
	}

	slog.Info("publish now started", "post_id", post.ID, "platforms", len(platforms))
	return s.co.Publish(ctx, post.ID)
}
