package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PostService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error)
	Update(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) error
	List(ctx context.Context, userID int64, status models.PostStatus) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error)
	CheckOwner(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db      *sql.DB
	pr      repository.PostRepository
	ppr     repository.PostPlatformRepository
	cr      repository.PlatformConnectionRepository
	minLead time.Duration
	now     func() time.Time
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	ppr repository.PostPlatformRepository,
	cr repository.PlatformConnectionRepository,
	minLead time.Duration) PostService {
	return &postService{
		db:      db,
		pr:      pr,
		ppr:     ppr,
		cr:      cr,
		minLead: minLead,
		now:     time.Now,
	}
}

func (s *postService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error) {
	post, platforms, err := s.validate(pc)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	post.UserID = userID

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	postID, err := s.pr.Create(ctx, tx, post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	if err = s.savePlatforms(ctx, tx, userID, postID, platforms); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("post created", "post_id", postID, "user_id", userID, "status", post.Status, "platforms", len(platforms))
	return postID, nil
}

// Update replaces the post fields and its platform rows. Published posts
// cannot be edited.
func (s *postService) Update(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) error {
	existing, err := s.owned(ctx, postID, userID)
	if err != nil {
		return err
	}
	if existing.Status == models.PostStatusPublished {
		return invalid("status", "published posts cannot be edited")
	}

	post, platforms, err := s.validate(pc)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	post.ID = postID
	post.UserID = userID

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.pr.Update(ctx, tx, post); err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if err = s.ppr.RemoveByPostID(ctx, tx, postID); err != nil {
		return fmt.Errorf("error clearing post platforms: %w", err)
	}
	if err = s.savePlatforms(ctx, tx, userID, postID, platforms); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("post updated", "post_id", postID, "user_id", userID, "status", post.Status)
	return nil
}

// savePlatforms creates the platform rows, noting the user's connection at
// the time when one exists. Publishing looks the connection up again by
// owner and platform.
func (s *postService) savePlatforms(ctx context.Context, tx *sql.Tx, userID, postID int64, platforms []models.PlatformID) error {
	for _, platform := range platforms {
		conn, err := s.cr.GetByUserAndPlatform(ctx, userID, platform)
		if err != nil {
			return fmt.Errorf("error loading %s connection: %w", platform, err)
		}

		pp := models.PostPlatform{
			PostID:     postID,
			PlatformID: platform,
			Status:     models.PlatformStatusPending,
		}
		if conn != nil {
			pp.ConnectionID = &conn.ID
		}

		if _, err := s.ppr.Create(ctx, tx, &pp); err != nil {
			return fmt.Errorf("error saving %s platform: %w", platform, err)
		}
	}
	return nil
}

func (s *postService) validate(pc *transfer.PostCreation) (*models.ScheduledPost, []models.PlatformID, error) {
	if pc == nil {
		return nil, nil, invalid("", "post data is required")
	}

	postType := models.PostType(strings.ToLower(strings.TrimSpace(pc.PostType)))
	if postType == "" {
		postType = models.PostTypeText
	}
	if !postType.Valid() {
		return nil, nil, invalid("post_type", fmt.Sprintf("unknown post type %q", pc.PostType))
	}

	status := models.PostStatus(strings.ToLower(strings.TrimSpace(pc.Status)))
	if status == "" {
		status = models.PostStatusDraft
	}
	if status != models.PostStatusDraft && status != models.PostStatusPending {
		return nil, nil, invalid("status", "posts can only be saved as draft or pending")
	}

	post := &models.ScheduledPost{
		Content:       strings.TrimSpace(pc.Content),
		Title:         strings.TrimSpace(pc.Title),
		Description:   strings.TrimSpace(pc.Description),
		MediaURL:      strings.TrimSpace(pc.MediaURL),
		Link:          strings.TrimSpace(pc.Link),
		Thumbnail:     strings.TrimSpace(pc.Thumbnail),
		PostType:      postType,
		ScheduledDate: pc.ScheduledDate.UTC(),
		Status:        status,
	}

	switch postType {
	case models.PostTypeText:
		if post.Content == "" {
			return nil, nil, invalid("content", "content is required")
		}
	case models.PostTypeMedia:
		if post.Content == "" {
			return nil, nil, invalid("content", "content is required")
		}
		if post.MediaURL == "" {
			return nil, nil, invalid("media_url", "media posts require an image or video")
		}
	case models.PostTypeArticle:
		if post.Title == "" {
			return nil, nil, invalid("title", "articles require a title")
		}
		if post.Link == "" {
			return nil, nil, invalid("link", "articles require a link")
		}
	case models.PostTypeVideo:
		if post.MediaURL == "" {
			return nil, nil, invalid("media_url", "Video file is required for YouTube posts")
		}
	}

	seen := make(map[models.PlatformID]bool, len(pc.Platforms))
	var platforms []models.PlatformID
	for _, raw := range pc.Platforms {
		platform := models.PlatformID(strings.ToLower(strings.TrimSpace(raw)))
		if !platform.Valid() {
			return nil, nil, invalid("platforms", fmt.Sprintf("unknown platform %q", raw))
		}
		if !postType.AllowsPlatform(platform) {
			return nil, nil, invalid("platforms", fmt.Sprintf("%s posts cannot be published to %s", postType, platform))
		}
		if seen[platform] {
			continue
		}
		seen[platform] = true
		platforms = append(platforms, platform)
	}

	if status == models.PostStatusPending {
		if len(platforms) == 0 {
			return nil, nil, invalid("platforms", "select at least one platform to schedule a post")
		}
		if post.ScheduledDate.IsZero() {
			return nil, nil, invalid("scheduled_date", "scheduled date is required")
		}
		if earliest := s.now().UTC().Add(s.minLead); post.ScheduledDate.Before(earliest) {
			return nil, nil, invalid("scheduled_date", fmt.Sprintf("posts must be scheduled at least %s from now", s.minLead))
		}
	}

	return post, platforms, nil
}

func (s *postService) List(ctx context.Context, userID int64, status models.PostStatus) ([]*models.ScheduledPost, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	posts, err := s.pr.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	platforms, err := s.ppr.ListByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		post.Platforms = platforms[post.ID]
	}

	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error) {
	post, err := s.owned(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	platforms, err := s.ppr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Platforms = platforms

	return post, nil
}

func (s *postService) CheckOwner(ctx context.Context, postID, userID int64) (bool, error) {
	return s.pr.CheckByUserID(ctx, postID, userID)
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	exists, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return err
	}
	slog.Info("post removed", "post_id", postID, "user_id", userID)
	return nil
}

func (s *postService) owned(ctx context.Context, postID, userID int64) (*models.ScheduledPost, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.UserID != userID {
		return nil, ErrNotFound
	}
	return post, nil
}
