package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postflow/internal/service"
)

// DuePostsJob runs the due-post scanner on the cron schedule. Overlapping
// ticks are dropped while a previous run is still in progress.
type DuePostsJob struct {
	sc      service.DuePostScanner
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

func NewDuePostsJob(sc service.DuePostScanner, timeout time.Duration) *DuePostsJob {
	return &DuePostsJob{
		sc:      sc,
		timeout: timeout,
	}
}

func (j *DuePostsJob) CheckScheduledPosts() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		slog.Info("previous due post scan still running, skipping tick")
		return
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	summary, err := j.sc.CheckScheduledPosts(ctx)
	if err != nil {
		slog.Error("due post scan failed", "error", err)
		return
	}

	slog.Info("due post scan finished",
		"processed", summary.PostsProcessed,
		"published", summary.Published,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"enqueued", summary.Enqueued)
}
