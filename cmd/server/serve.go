package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/api/handlers"
	"github.com/maheshrc27/postflow/internal/api/middleware"
	job "github.com/maheshrc27/postflow/internal/jobs"
	"github.com/maheshrc27/postflow/internal/queue"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
)

func serve(cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	svc := newServices(cfg, db)
	if missing := svc.registry.Missing(); len(missing) > 0 {
		slog.Warn("platforms without a publisher", "platforms", missing)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()
	queueClient := queue.NewClient(client)

	var enqueuer service.PostEnqueuer
	if cfg.Publishing.QueueEnabled {
		enqueuer = queueClient
	}
	scanner := svc.scanner(cfg, enqueuer)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			slog.Error("request failed", "path", c.Path(), "status", code, "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	health := handlers.NewHealthHandler(db)
	app.Get("/healthz", health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	cronHandler := handlers.NewCronHandler(scanner)
	cronGroup := app.Group("/cron", middleware.CronSecret(cfg.CronSecret))
	cronGroup.Get("/check-scheduled-posts", cronHandler.CheckScheduledPosts)
	cronGroup.Post("/check-scheduled-posts", cronHandler.CheckScheduledPosts)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	var publishQueue handlers.PublishNowEnqueuer
	if cfg.Publishing.QueueEnabled {
		publishQueue = queueClient
	}

	post := handlers.NewPostHandler(svc.posts, svc.publishNow, publishQueue)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/publish", post.PublishPost)

	connections := handlers.NewConnectionHandler(svc.connections)
	api.Get("/connections", connections.ListConnections)
	api.Delete("/connections/:id", connections.DeleteConnection)

	c := cron.New()
	if cfg.Scanner.Enabled {
		dueJob := job.NewDuePostsJob(scanner, cfg.Publishing.Timeout+cfg.Scanner.Window)
		if err := c.AddFunc(cfg.Scanner.Schedule, dueJob.CheckScheduledPosts); err != nil {
			closeDB(db)
			return err
		}
		c.Start()
		slog.Info("due post scanner scheduled", "schedule", cfg.Scanner.Schedule)
	}

	var worker *asynq.Server
	if cfg.Publishing.QueueEnabled {
		worker = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.Publishing.Concurrency,
		})
		mux := asynq.NewServeMux()
		queue.NewWorker(scanner, svc.publishNow).Register(mux)

		go func() {
			slog.Info("starting the asynq server")
			if err := worker.Run(mux); err != nil {
				slog.Error("asynq server stopped", "error", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, c, worker)
	closeDB(db)
	return nil
}

func gracefulShutdown(app *fiber.App, c *cron.Cron, worker *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down server")

	c.Stop()
	if worker != nil {
		worker.Shutdown()
	}
	if err := app.Shutdown(); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	slog.Info("server shutdown complete")
}
