package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var connectionColumnNames = []string{"id", "user_id", "platform_id", "account_id", "account_name",
	"access_token", "refresh_token", "expires_at", "created_at", "updated_at"}

func TestPlatformConnectionRepository_GetByUserAndPlatform(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM platform_connections WHERE user_id = \$1 AND platform_id = \$2`).
		WithArgs(int64(3), "youtube").
		WillReturnRows(sqlmock.NewRows(connectionColumnNames).
			AddRow(4, 3, "youtube", "UC123", "My Channel", "tok", "refresh", nil, now, now))

	pc, err := NewPlatformConnectionRepository(db).GetByUserAndPlatform(context.Background(), 3, models.PlatformYouTube)
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, "UC123", pc.AccountID)
	assert.Nil(t, pc.ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlatformConnectionRepository_GetByUserAndPlatform_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM platform_connections`).
		WithArgs(int64(3), "threads").
		WillReturnError(sql.ErrNoRows)

	pc, err := NewPlatformConnectionRepository(db).GetByUserAndPlatform(context.Background(), 3, models.PlatformThreads)
	require.NoError(t, err)
	assert.Nil(t, pc)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlatformConnectionRepository_CheckByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM platform_connections WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(4), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	ok, err := NewPlatformConnectionRepository(db).CheckByUserID(context.Background(), 4, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishAttemptRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO publish_attempts`).
		WithArgs(int64(1), int64(10), "x", "failed", "rate limited", int64(120), at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))

	id, err := NewPublishAttemptRepository(db).Create(context.Background(), &models.PublishAttempt{
		PostID:         1,
		PostPlatformID: 10,
		PlatformID:     models.PlatformX,
		Status:         models.PlatformStatusFailed,
		ErrorMessage:   "rate limited",
		DurationMs:     120,
		AttemptedAt:    at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	require.NoError(t, mock.ExpectationsWereMet())
}
