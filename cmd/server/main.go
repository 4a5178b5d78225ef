package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/content_api/internal/blob"
	"github.com/Skotchmaster/content_api/internal/config"
	"github.com/Skotchmaster/content_api/internal/events"
	"github.com/Skotchmaster/content_api/internal/httpserver"
	"github.com/Skotchmaster/content_api/internal/logging"
	appmw "github.com/Skotchmaster/content_api/internal/middleware"
	"github.com/Skotchmaster/content_api/internal/repo"
	"github.com/Skotchmaster/content_api/internal/search"
	"github.com/Skotchmaster/content_api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	blobs, err := blob.NewMinIOStore(initCtx, cfg.MinIO)
	initCancel()
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	var producer events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		defer p.Close()
		producer = p
	}

	var indexer search.Indexer
	if cfg.ESURL != "" {
		idx, err := search.NewESIndexer(cfg)
		if err != nil {
			log.Fatalf("search indexer: %v", err)
		}
		indexer = idx
	}

	gormRepo := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{
		Users:            gormRepo,
		Tokens:           gormRepo,
		Events:           producer,
		JWTAccessSecret:  cfg.JWTAccessSecret,
		JWTRefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:        cfg.AccessTokenTTL,
		RefreshTTL:       cfg.RefreshTokenTTL,
	}
	postSvc := &service.PostService{Repo: gormRepo, Events: producer, Search: indexer}
	fileSvc := &service.FileService{Repo: gormRepo, Blobs: blobs, Events: producer, MaxSize: cfg.MaxUploadSize}

	validate := validator.New()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc, Validate: validate},
		PostHandler: &httpserver.PostHTTP{Svc: postSvc, Validate: validate},
		FileHandler: &httpserver.FileHTTP{Svc: fileSvc},
		JWTSecret:   cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("content-api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("content-api stopped")
}
