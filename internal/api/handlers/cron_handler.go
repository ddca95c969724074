package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type CronHandler struct {
	sc service.DuePostScanner
}

func NewCronHandler(sc service.DuePostScanner) *CronHandler {
	return &CronHandler{sc: sc}
}

// CheckScheduledPosts runs one scan for an external scheduler.
func (h *CronHandler) CheckScheduledPosts(c *fiber.Ctx) error {
	summary, err := h.sc.CheckScheduledPosts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.ScanResponse{
		Success:        true,
		PostsProcessed: summary.PostsProcessed,
		Published:      summary.Published,
		Failed:         summary.Failed,
		Skipped:        summary.Skipped,
		Enqueued:       summary.Enqueued,
		TimeWindow: transfer.TimeWindow{
			Start: summary.Window.Start,
			End:   summary.Window.End,
		},
	})
}
