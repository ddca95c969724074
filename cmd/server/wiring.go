package main

import (
	"database/sql"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/service"
)

// services is the publishing graph shared by every command.
type services struct {
	posts       service.PostService
	connections service.ConnectionService
	publishNow  service.PublishNowService
	coordinator service.Coordinator
	postRepo    repository.PostRepository
	registry    *publisher.Registry
}

func newServices(cfg *config.Config, db *sql.DB) *services {
	postRepo := repository.NewPostRepository(db)
	postPlatformRepo := repository.NewPostPlatformRepository(db)
	connectionRepo := repository.NewPlatformConnectionRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)

	registry := publisher.NewDefaultRegistry(*cfg, media.NewStore(*cfg))
	credentials := service.NewCredentialResolver(cfg.Publishing.TokenEncryption, cfg.SecretKey)
	coordinator := service.NewCoordinator(postRepo, postPlatformRepo, attemptRepo, registry, credentials, cfg.Publishing)

	return &services{
		posts:       service.NewPostService(db, postRepo, postPlatformRepo, connectionRepo, cfg.Publishing.MinScheduleLead),
		connections: service.NewConnectionService(connectionRepo),
		publishNow:  service.NewPublishNowService(postRepo, postPlatformRepo, coordinator),
		coordinator: coordinator,
		postRepo:    postRepo,
		registry:    registry,
	}
}

// scanner builds the due-post scanner. A nil enqueuer publishes inline.
func (s *services) scanner(cfg *config.Config, enq service.PostEnqueuer) service.DuePostScanner {
	return service.NewDuePostScanner(s.postRepo, s.coordinator, cfg.Scanner, enq)
}
