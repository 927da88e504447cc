package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lifeweavers/caseflow/internal/api"
	"github.com/lifeweavers/caseflow/internal/core/service"
	mongodb "github.com/lifeweavers/caseflow/internal/infrastructure/db/mongo"
	redisdb "github.com/lifeweavers/caseflow/internal/infrastructure/db/redis"
	"github.com/lifeweavers/caseflow/internal/infrastructure/scheduler"
	"github.com/lifeweavers/caseflow/internal/pkg/config"
	"github.com/lifeweavers/caseflow/pkg/logger"
)

// @title        Caseflow API
// @version      1.0
// @description  Clinical case management: entitlements, impersonation, messaging eligibility and milestone task scheduling.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// Missing .env is fine in production, where the environment is real.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	threadRepo := mongodb.NewThreadRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("task index creation failed")
	}

	// --- Services ---
	permissionService := service.NewPermissionService(userRepo, clientRepo, log)
	sessionService := service.NewSessionService(userRepo, sessionStore, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, permissionService, log)
	messagingService := service.NewMessagingService(userRepo, clientRepo, threadRepo, log)
	taskService := service.NewTaskService(
		taskRepo, clientRepo, userRepo, permissionService,
		cfg.Tasks.AdminAnchorID, cfg.Tasks.AdminAnchorName,
		nil, log,
	)

	// --- Milestone scheduler ---
	sched := scheduler.NewMilestoneScheduler(taskService, taskRepo, clientRepo, log)
	if err := sched.Start(cfg.Tasks.SyncSchedule); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Tasks.SyncSchedule).Msg("scheduler start failed")
	}
	defer sched.Stop()

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Mongo:             db,
		Redis:             rdb,
		AuthService:       authService,
		SessionService:    sessionService,
		UserService:       userService,
		TaskService:       taskService,
		MessagingService:  messagingService,
		PermissionService: permissionService,
		Users:             userRepo,
		Clients:           clientRepo,
		JWTSecret:         cfg.JWTSecret,
		Log:               log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
