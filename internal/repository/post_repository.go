package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) error
	ListByUserID(ctx context.Context, userID int64, status models.PostStatus) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, windowStart, windowEnd time.Time) ([]*models.ScheduledPost, error)
	UpdateStatus(ctx context.Context, id int64, status models.PostStatus, publishedDate *time.Time) error
	Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

const postColumns = `id, user_id, content, title, description, media_url, link, thumbnail,
	post_type, scheduled_date, status, published_date, claimed_at, created_at, updated_at`

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.ScheduledPost, error) {
	var (
		post          models.ScheduledPost
		publishedDate sql.NullTime
		claimedAt     sql.NullTime
	)
	err := row.Scan(&post.ID, &post.UserID, &post.Content, &post.Title, &post.Description,
		&post.MediaURL, &post.Link, &post.Thumbnail, &post.PostType, &post.ScheduledDate,
		&post.Status, &publishedDate, &claimedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.ScheduledDate = post.ScheduledDate.UTC()
	post.PublishedDate = timePtr(publishedDate)
	post.ClaimedAt = timePtr(claimedAt)
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, content, title, description, media_url, link, thumbnail, post_type, scheduled_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		post.UserID,
		post.Content,
		post.Title,
		post.Description,
		post.MediaURL,
		post.Link,
		post.Thumbnail,
		post.PostType,
		post.ScheduledDate.UTC(),
		post.Status,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) Update(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) error {
	query := `
		UPDATE scheduled_posts
		SET content = $1,
			title = $2,
			description = $3,
			media_url = $4,
			link = $5,
			thumbnail = $6,
			post_type = $7,
			scheduled_date = $8,
			status = $9,
			updated_at = $10
		WHERE id = $11
	`
	_, err := pick(r.db, tx).ExecContext(ctx, query,
		post.Content,
		post.Title,
		post.Description,
		post.MediaURL,
		post.Link,
		post.Thumbnail,
		post.PostType,
		post.ScheduledDate.UTC(),
		post.Status,
		time.Now().UTC(),
		post.ID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, fmt.Errorf("query row: %w", err)
	}

	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64, status models.PostStatus) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE user_id = $1`
	args := []any{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY scheduled_date ASC`

	return r.list(ctx, query, args...)
}

// ListDue returns pending posts whose scheduled date lies in the inclusive
// range [windowStart, windowEnd].
func (r *postRepository) ListDue(ctx context.Context, windowStart, windowEnd time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts
		WHERE status = $1
		AND scheduled_date >= $2
		AND scheduled_date <= $3
		ORDER BY scheduled_date ASC`

	return r.list(ctx, query, models.PostStatusPending, windowStart.UTC(), windowEnd.UTC())
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

// UpdateStatus sets the post status and releases any claim. A nil
// publishedDate leaves the stored value untouched.
func (r *postRepository) UpdateStatus(ctx context.Context, id int64, status models.PostStatus, publishedDate *time.Time) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			published_date = COALESCE($2, published_date),
			claimed_at = NULL,
			updated_at = $3
		WHERE id = $4
	`
	var published sql.NullTime
	if publishedDate != nil {
		published = sql.NullTime{Time: publishedDate.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, status, published, time.Now().UTC(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Claim marks a pending post as taken by the caller. It reports false when
// the post is no longer pending or another worker claimed it after
// staleBefore.
func (r *postRepository) Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET claimed_at = $2,
			updated_at = $2
		WHERE id = $1
		AND status = 'pending'
		AND (claimed_at IS NULL OR claimed_at < $3)
	`
	result, err := r.db.ExecContext(ctx, query, id, now.UTC(), staleBefore.UTC())
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
