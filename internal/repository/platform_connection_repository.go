package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
)

type PlatformConnectionRepository interface {
	GetByID(ctx context.Context, id int64) (*models.PlatformConnection, error)
	GetByUserAndPlatform(ctx context.Context, userID int64, platform models.PlatformID) (*models.PlatformConnection, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
	CheckByUserID(ctx context.Context, connectionID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

const connectionColumns = `id, user_id, platform_id, account_id, account_name, access_token, refresh_token, expires_at, created_at, updated_at`

type platformConnectionRepository struct {
	db *sql.DB
}

func NewPlatformConnectionRepository(db *sql.DB) PlatformConnectionRepository {
	return &platformConnectionRepository{db: db}
}

func scanConnection(row rowScanner) (*models.PlatformConnection, error) {
	var (
		pc        models.PlatformConnection
		expiresAt sql.NullTime
	)
	err := row.Scan(&pc.ID, &pc.UserID, &pc.PlatformID, &pc.AccountID, &pc.AccountName,
		&pc.AccessToken, &pc.RefreshToken, &expiresAt, &pc.CreatedAt, &pc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pc.ExpiresAt = timePtr(expiresAt)
	return &pc, nil
}

func (r *platformConnectionRepository) GetByID(ctx context.Context, id int64) (*models.PlatformConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM platform_connections WHERE id = $1`

	pc, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, fmt.Errorf("query row: %w", err)
	}
	return pc, nil
}

func (r *platformConnectionRepository) GetByUserAndPlatform(ctx context.Context, userID int64, platform models.PlatformID) (*models.PlatformConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM platform_connections WHERE user_id = $1 AND platform_id = $2`

	pc, err := scanConnection(r.db.QueryRowContext(ctx, query, userID, platform))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, fmt.Errorf("query row: %w", err)
	}
	return pc, nil
}

func (r *platformConnectionRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM platform_connections WHERE user_id = $1 ORDER BY platform_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var connections []*models.PlatformConnection
	for rows.Next() {
		pc, err := scanConnection(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		connections = append(connections, pc)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return connections, nil
}

func (r *platformConnectionRepository) CheckByUserID(ctx context.Context, connectionID, userID int64) (bool, error) {
	query := "SELECT 1 FROM platform_connections WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, connectionID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *platformConnectionRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM platform_connections WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
