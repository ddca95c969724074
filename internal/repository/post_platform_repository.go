package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postflow/internal/models"
)

type PostPlatformRepository interface {
	Create(ctx context.Context, tx *sql.Tx, pp *models.PostPlatform) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostPlatform, error)
	ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]*models.PostPlatform, error)
	UpdateStatus(ctx context.Context, id int64, status models.PlatformStatus, errorMessage, platformPostID string) error
	RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error
}

type postPlatformRepository struct {
	db *sql.DB
}

func NewPostPlatformRepository(db *sql.DB) PostPlatformRepository {
	return &postPlatformRepository{db: db}
}

func (r *postPlatformRepository) Create(ctx context.Context, tx *sql.Tx, pp *models.PostPlatform) (int64, error) {
	query := `
		INSERT INTO post_platforms (post_id, platform_id, status, connection_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var connectionID sql.NullInt64
	if pp.ConnectionID != nil {
		connectionID = sql.NullInt64{Int64: *pp.ConnectionID, Valid: true}
	}

	var id int64
	err := pick(r.db, tx).QueryRowContext(ctx, query, pp.PostID, pp.PlatformID, pp.Status, connectionID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// ListByPostID returns the platform rows of a post, each joined with the
// post owner's current connection for that platform. connection_id is not
// part of the join, so reconnecting an account after the post was created
// is picked up on the next publish.
func (r *postPlatformRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostPlatform, error) {
	query := `
		SELECT pp.id, pp.post_id, pp.platform_id, pp.status, pp.error_message, pp.connection_id,
			pp.platform_post_id, pp.updated_at,
			pc.id, pc.user_id, pc.account_id, pc.account_name, pc.access_token, pc.refresh_token, pc.expires_at
		FROM post_platforms pp
		JOIN scheduled_posts sp ON sp.id = pp.post_id
		LEFT JOIN platform_connections pc
			ON pc.user_id = sp.user_id
			AND pc.platform_id = pp.platform_id
		WHERE pp.post_id = $1
		ORDER BY pp.id
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var platforms []*models.PostPlatform
	for rows.Next() {
		var (
			pp           models.PostPlatform
			connectionID sql.NullInt64
			connID       sql.NullInt64
			connUserID   sql.NullInt64
			accountID    sql.NullString
			accountName  sql.NullString
			accessToken  sql.NullString
			refreshToken sql.NullString
			expiresAt    sql.NullTime
		)
		err := rows.Scan(&pp.ID, &pp.PostID, &pp.PlatformID, &pp.Status, &pp.ErrorMessage, &connectionID,
			&pp.PlatformPostID, &pp.UpdatedAt,
			&connID, &connUserID, &accountID, &accountName, &accessToken, &refreshToken, &expiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pp.ConnectionID = int64Ptr(connectionID)

		if connID.Valid {
			pp.Connection = &models.PlatformConnection{
				ID:           connID.Int64,
				UserID:       connUserID.Int64,
				PlatformID:   pp.PlatformID,
				AccountID:    accountID.String,
				AccountName:  accountName.String,
				AccessToken:  accessToken.String,
				RefreshToken: refreshToken.String,
				ExpiresAt:    timePtr(expiresAt),
			}
		}
		platforms = append(platforms, &pp)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return platforms, nil
}

// ListByPostIDs loads platform rows for several posts at once, without
// connections. Used by listing endpoints.
func (r *postPlatformRepository) ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]*models.PostPlatform, error) {
	result := make(map[int64][]*models.PostPlatform, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, post_id, platform_id, status, error_message, connection_id, platform_post_id, updated_at
		FROM post_platforms
		WHERE post_id = ANY($1)
		ORDER BY post_id, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pp           models.PostPlatform
			connectionID sql.NullInt64
		)
		err := rows.Scan(&pp.ID, &pp.PostID, &pp.PlatformID, &pp.Status, &pp.ErrorMessage, &connectionID,
			&pp.PlatformPostID, &pp.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pp.ConnectionID = int64Ptr(connectionID)
		result[pp.PostID] = append(result[pp.PostID], &pp)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return result, nil
}

// UpdateStatus records the outcome for one platform row. An empty
// platformPostID keeps whatever id a previous attempt stored.
func (r *postPlatformRepository) UpdateStatus(ctx context.Context, id int64, status models.PlatformStatus, errorMessage, platformPostID string) error {
	query := `
		UPDATE post_platforms
		SET status = $1,
			error_message = $2,
			platform_post_id = COALESCE(NULLIF($3, ''), platform_post_id),
			updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, status, errorMessage, platformPostID, time.Now().UTC(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		return fmt.Errorf("post platform %d not found", id)
	}
	return nil
}

func (r *postPlatformRepository) RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error {
	query := `DELETE FROM post_platforms WHERE post_id = $1`
	_, err := pick(r.db, tx).ExecContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
