package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/learnify/internal/bootstrap"
	"anoa.com/learnify/internal/config"
	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/internal/modules/search/indexer"
	"anoa.com/learnify/internal/server"
	"anoa.com/learnify/pkg/cache"
	"anoa.com/learnify/pkg/database"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{Level: "info", Format: "console"}).Fatal(err, "failed to load config")
	}

	log := logger.New(cfg.Log)
	response.Setup(log, !cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database, !cfg.IsProduction() && cfg.Log.Level == "debug")
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal(err, "migration failed")
	}

	ctx := context.Background()
	if cfg.AppEnv == "development" {
		seed := bootstrap.AdminSeed{Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword}
		if err := bootstrap.SeedAdminUser(ctx, db, seed, log); err != nil {
			log.Fatal(err, "failed to seed admin user")
		}
	}

	deps := server.Deps{Ping: map[string]func(context.Context) error{}}

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error(err, "redis unavailable, caching disabled")
		} else {
			defer redisClient.Close()
			deps.Cache = cache.New(redisClient)
			deps.Ping["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
			log.Info("Connected to Redis")
		}
	}

	if cfg.MeiliSearchHost != "" {
		meili := indexer.NewMeiliClient(cfg.MeiliSearchHost, cfg.MeiliMasterKey)
		deps.Indexer = indexer.NewMeiliIndexer(meili, log)
		deps.Ping["meilisearch"] = func(context.Context) error {
			if !meili.IsHealthy() {
				return errors.New("meilisearch is unhealthy")
			}
			return nil
		}
		log.Info("Meilisearch indexing enabled")
	}

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("CLOUDINARY_URL not set, image uploads disabled")
	case err != nil:
		log.Error(err, "cloudinary unavailable, image uploads disabled")
	default:
		deps.Storage = imageStorage
	}

	srv := server.NewServer(cfg, log, db, deps)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.With(map[string]interface{}{
			"port":    cfg.Port,
			"env":     cfg.AppEnv,
			"origins": cfg.AllowedOrigins,
		}).Info("Learnify server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server exited with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "forced shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}
