package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

type ConnectionService interface {
	List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
	Delete(ctx context.Context, userID, connectionID int64) error
}

type connectionService struct {
	cr repository.PlatformConnectionRepository
}

func NewConnectionService(cr repository.PlatformConnectionRepository) ConnectionService {
	return &connectionService{
		cr: cr,
	}
}

func (s *connectionService) List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	connections, err := s.cr.ListByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return connections, nil
}

// Delete removes a connection owned by userID. Platform rows that used it
// keep their history and fail on the next publish with a reconnect message.
func (s *connectionService) Delete(ctx context.Context, userID, connectionID int64) error {
	exists, err := s.cr.CheckByUserID(ctx, connectionID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.cr.Remove(ctx, connectionID); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
