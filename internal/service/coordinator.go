package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Coordinator publishes one post to every platform it targets.
type Coordinator interface {
	// Publish returns ErrNotFound, ErrNoPlatformsConfigured or a
	// *SystemError. Platform failures are recorded on the platform rows
	// and never returned.
	Publish(ctx context.Context, postID int64) error
}

type coordinator struct {
	pr          repository.PostRepository
	ppr         repository.PostPlatformRepository
	par         repository.PublishAttemptRepository
	reg         *publisher.Registry
	cr          *CredentialResolver
	timeout     time.Duration
	concurrency int
	now         func() time.Time
}

func NewCoordinator(
	pr repository.PostRepository,
	ppr repository.PostPlatformRepository,
	par repository.PublishAttemptRepository,
	reg *publisher.Registry,
	cr *CredentialResolver,
	cfg config.Publishing) Coordinator {
	return &coordinator{
		pr:          pr,
		ppr:         ppr,
		par:         par,
		reg:         reg,
		cr:          cr,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
}

func (c *coordinator) Publish(ctx context.Context, postID int64) error {
	post, err := c.pr.GetByID(ctx, postID)
	if err != nil {
		return systemError("load post", err)
	}
	if post == nil {
		return ErrNotFound
	}

	platforms, err := c.ppr.ListByPostID(ctx, postID)
	if err != nil {
		return systemError("load post platforms", err)
	}
	if len(platforms) == 0 {
		return ErrNoPlatformsConfigured
	}

	content := publisher.ContentFromPost(post)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	for _, pp := range platforms {
		g.Go(func() error {
			if err := c.publishPlatform(ctx, content, pp); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

// publishPlatform runs one branch to a terminal status. Only a failed
// status write is returned.
func (c *coordinator) publishPlatform(ctx context.Context, content publisher.Content, pp *models.PostPlatform) error {
	log := slog.With("post_id", pp.PostID, "platform", pp.PlatformID, "post_platform_id", pp.ID)

	start := c.now()
	result, err := c.attempt(ctx, log, content, pp)
	elapsed := c.now().Sub(start)

	var (
		status   = models.PlatformStatusPublished
		message  string
		remoteID string
	)
	if err != nil {
		status = models.PlatformStatusFailed
		message = err.Error()
		log.Warn("publish failed", "error", message, "duration", elapsed)
	} else {
		remoteID = result.PlatformPostID
		log.Info("publish succeeded", "platform_post_id", remoteID, "duration", elapsed)
	}

	metrics.PlatformPublishTotal.WithLabelValues(pp.PlatformID.String(), outcome(err)).Inc()
	metrics.PlatformPublishDuration.WithLabelValues(pp.PlatformID.String()).Observe(elapsed.Seconds())

	// The outcome is written even when the caller's context is done.
	writeCtx := context.WithoutCancel(ctx)
	c.recordAttempt(writeCtx, pp, status, message, start, elapsed)

	if err := c.ppr.UpdateStatus(writeCtx, pp.ID, status, message, remoteID); err != nil {
		log.Error("post platform status not saved", "status", status, "error", err)
		return systemError(fmt.Sprintf("update %s status", pp.PlatformID), err)
	}
	return nil
}

func (c *coordinator) attempt(ctx context.Context, log *slog.Logger, content publisher.Content, pp *models.PostPlatform) (*publisher.Result, error) {
	pub, ok := c.reg.Get(pp.PlatformID)
	if !ok {
		return nil, fmt.Errorf("publishing to %s is not supported", pp.PlatformID)
	}

	cred, err := c.cr.Resolve(pp)
	if err != nil {
		return nil, err
	}
	log.Info("connection resolved", "connection_id", pp.Connection.ID, "account_id", cred.AccountID)

	log.Info("publish attempted")
	return c.call(ctx, pub, pp.PlatformID, content, cred)
}

type callResult struct {
	result *publisher.Result
	err    error
}

// call bounds the publisher by the configured timeout even when the
// publisher ignores its context.
func (c *coordinator) call(ctx context.Context, pub publisher.Publisher, platform models.PlatformID, content publisher.Content, cred publisher.Credential) (*publisher.Result, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan callResult, 1)
	go func() {
		res, err := pub.Publish(callCtx, content, cred)
		done <- callResult{result: res, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if callCtx.Err() != nil {
				return nil, c.interrupted(ctx, platform)
			}
			return nil, &PlatformCallError{Platform: platform, Err: r.err}
		}
		if r.result == nil {
			return &publisher.Result{}, nil
		}
		return r.result, nil
	case <-callCtx.Done():
		return nil, c.interrupted(ctx, platform)
	}
}

// interrupted explains why a call's context ended: the caller gave up or
// the platform timeout elapsed.
func (c *coordinator) interrupted(ctx context.Context, platform models.PlatformID) error {
	if ctx.Err() != nil {
		return &PlatformCallError{Platform: platform, Err: fmt.Errorf("%s publish cancelled", platform)}
	}
	return &timeoutError{platform: platform, after: c.timeout}
}

type timeoutError struct {
	platform models.PlatformID
	after    time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("%s publish timed out after %s", e.platform, e.after)
}

func (c *coordinator) recordAttempt(ctx context.Context, pp *models.PostPlatform, status models.PlatformStatus, message string, start time.Time, elapsed time.Duration) {
	if c.par == nil {
		return
	}
	_, err := c.par.Create(ctx, &models.PublishAttempt{
		PostID:         pp.PostID,
		PostPlatformID: pp.ID,
		PlatformID:     pp.PlatformID,
		Status:         status,
		ErrorMessage:   message,
		DurationMs:     elapsed.Milliseconds(),
		AttemptedAt:    start.UTC(),
	})
	if err != nil {
		slog.Warn("publish attempt not recorded", "post_id", pp.PostID, "platform", pp.PlatformID, "error", err)
	}
}

func outcome(err error) string {
	var (
		credErr    *CredentialError
		timeoutErr *timeoutError
	)
	switch {
	case err == nil:
		return metrics.OutcomePublished
	case errors.As(err, &credErr):
		return metrics.OutcomeRejected
	case errors.As(err, &timeoutErr):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeFailed
	}
}
