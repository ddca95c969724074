package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// dueRetention keeps completed due-post tasks around long enough for
// overlapping scan windows to hit the task id conflict.
const dueRetention = 30 * time.Minute

// EnqueueDuePost queues a post picked up by the scanner. The task id is
// derived from the post and its scheduled date, so a post already queued
// by an earlier overlapping scan returns service.ErrAlreadyQueued.
func (c *Client) EnqueueDuePost(ctx context.Context, post *models.ScheduledPost) error {
	payload, err := json.Marshal(PublishPostPayload{PostID: post.ID})
	if err != nil {
		return err
	}

	taskID := fmt.Sprintf("publish-due:%d:%d", post.ID, post.ScheduledDate.Unix())
	task := asynq.NewTask(TaskTypePublishDue, payload)

	_, err = c.ac.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.MaxRetry(0),
		asynq.Retention(dueRetention))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return service.ErrAlreadyQueued
		}
		slog.Info(err.Error())
		return err
	}

	slog.Info("due post enqueued", "post_id", post.ID, "task_id", taskID)
	return nil
}

// EnqueuePublishNow queues a manual publish and returns the task id.
func (c *Client) EnqueuePublishNow(ctx context.Context, postID int64) (string, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	taskID := "publish-now:" + id

	_, err = c.ac.EnqueueContext(ctx, asynq.NewTask(TaskTypePublishNow, payload),
		asynq.TaskID(taskID),
		asynq.MaxRetry(0))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	slog.Info("publish now enqueued", "post_id", postID, "task_id", taskID)
	return taskID, nil
}
