package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow/internal/service"
)

const (
	TaskTypePublishDue = "post:publish-due"
	TaskTypePublishNow = "post:publish-now"
)

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

// taskEnqueuer is the part of *asynq.Client used here.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client enqueues publish tasks.
type Client struct {
	ac taskEnqueuer
}

func NewClient(ac *asynq.Client) *Client {
	return &Client{ac: ac}
}

// Worker handles publish tasks with the same services the HTTP API uses.
type Worker struct {
	sc service.DuePostScanner
	pn service.PublishNowService
}

func NewWorker(sc service.DuePostScanner, pn service.PublishNowService) *Worker {
	return &Worker{
		sc: sc,
		pn: pn,
	}
}
