package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow/internal/service"
)

func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishDue, w.HandlePublishDueTask)
	mux.HandleFunc(TaskTypePublishNow, w.HandlePublishNowTask)
}

func (w *Worker) HandlePublishDueTask(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}
	return w.sc.ProcessDuePost(ctx, payload.PostID)
}

// HandlePublishNowTask never asks asynq to retry. The post status already
// records the failure.
func (w *Worker) HandlePublishNowTask(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}

	err = w.pn.PublishNow(ctx, payload.PostID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoPlatformsConfigured):
		slog.Info("publish now task rejected", "post_id", payload.PostID, "error", err)
	default:
		slog.Error("publish now task failed", "post_id", payload.PostID, "error", err)
	}
	return fmt.Errorf("publish post %d: %v: %w", payload.PostID, err, asynq.SkipRetry)
}

func decodePayload(task *asynq.Task) (PublishPostPayload, error) {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	if payload.PostID <= 0 {
		return payload, fmt.Errorf("%s payload has no post id: %w", task.Type(), asynq.SkipRetry)
	}
	return payload, nil
}
