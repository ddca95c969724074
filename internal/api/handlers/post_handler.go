package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

// PublishNowEnqueuer queues a manual publish for a background worker.
type PublishNowEnqueuer interface {
	EnqueuePublishNow(ctx context.Context, postID int64) (string, error)
}

type PostHandler struct {
	s  service.PostService
	pn service.PublishNowService
	q  PublishNowEnqueuer
}

// NewPostHandler builds the post routes. q may be nil, in which case
// publish requests always run inline.
func NewPostHandler(s service.PostService, pn service.PublishNowService, q PublishNowEnqueuer) *PostHandler {
	return &PostHandler{s: s, pn: pn, q: q}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postID, err := h.s.Create(c.Context(), userID, &pc)
	if err != nil {
		return errorResponse(c, err, "Post not found", "Unable to create post")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      postID,
		"message": "Post saved successfully",
	})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), userID, postID, &pc); err != nil {
		return errorResponse(c, err, "Post not found", "Unable to update post")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":      postID,
		"message": "Post updated successfully",
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID, models.PostStatus(c.Query("status")))
	if err != nil {
		return errorResponse(c, err, "Post not found", "Unable to list posts")
	}
	if posts == nil {
		posts = []*models.ScheduledPost{}
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	post, err := h.s.PostInfo(c.Context(), postID, userID)
	if err != nil {
		return errorResponse(c, err, "Post not found", "Unable to load post")
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.s.Remove(c.Context(), userID, postID); err != nil {
		return errorResponse(c, err, "Post not found", "Unable to remove post")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PublishPost publishes a post immediately. With ?async=true the publish is
// queued and the response returns before any platform is called.
func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	owner, err := h.s.CheckOwner(c.Context(), postID, userID)
	if err != nil {
		return errorResponse(c, err, "Post not found", "Unable to publish post")
	}
	if !owner {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if c.QueryBool("async") && h.q != nil {
		taskID, err := h.q.EnqueuePublishNow(c.Context(), postID)
		if err != nil {
			return errorResponse(c, err, "Post not found", "Unable to queue post for publishing")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Post queued for publishing",
			"task_id": taskID,
		})
	}

	if err := h.pn.PublishNow(c.Context(), postID); err != nil {
		return errorResponse(c, err, "Post not found", "Unable to publish post")
	}

	post, err := h.s.PostInfo(c.Context(), postID, userID)
	if err != nil {
		return errorResponse(c, err, "Post not found", "Unable to load post")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post published",
		"post":    post,
	})
}
