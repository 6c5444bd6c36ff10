package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/beautyai/beautyai-api/internal/analyzer"
	"github.com/beautyai/beautyai-api/internal/audit"
	"github.com/beautyai/beautyai-api/internal/config"
	dbpkg "github.com/beautyai/beautyai-api/internal/db"
	"github.com/beautyai/beautyai-api/internal/logger"
	"github.com/beautyai/beautyai-api/internal/middleware"
	"github.com/beautyai/beautyai-api/internal/routes"
	"github.com/beautyai/beautyai-api/internal/storage"
)

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "beautyai-api")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}

	if err := dbpkg.SeedSuperadmin(context.Background(), db, cfg, zlog); err != nil {
		zlog.Fatal("seed superadmin", zap.Error(err))
	}

	store, err := storage.New(storage.Config{
		Type:         cfg.StorageType,
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		S3Endpoint:   cfg.S3Endpoint,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		zlog.Fatal("storage", zap.Error(err))
	}

	var az analyzer.Analyzer = analyzer.Noop{}
	if cfg.AnalyzerURL != "" {
		az = analyzer.NewHTTPAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerTimeout, zlog.Named("analyzer"))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("redis url", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}
	limiter := middleware.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow, zlog.Named("login_limiter"))

	dispatcher := audit.NewDispatcher(audit.New(db), zlog.Named("audit"), 256)

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      zlog,
		Audit:    dispatcher,
		Storage:  store,
		Analyzer: az,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	dispatcher.Close()
	zlog.Info("server stopped")
}
