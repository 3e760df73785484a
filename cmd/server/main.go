package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/d4t4cr0c/catalog-api/internal/authclient"
	"github.com/d4t4cr0c/catalog-api/internal/config"
	"github.com/d4t4cr0c/catalog-api/internal/db"
	"github.com/d4t4cr0c/catalog-api/internal/events"
	"github.com/d4t4cr0c/catalog-api/internal/httpserver"
	"github.com/d4t4cr0c/catalog-api/internal/logging"
	authmw "github.com/d4t4cr0c/catalog-api/internal/middleware/auth"
	"github.com/d4t4cr0c/catalog-api/internal/middleware/ratelimit"
	"github.com/d4t4cr0c/catalog-api/internal/middleware/secure"
	"github.com/d4t4cr0c/catalog-api/internal/repo"
	"github.com/d4t4cr0c/catalog-api/internal/search"
	"github.com/d4t4cr0c/catalog-api/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	var index *search.Index
	if cfg.ESURL != "" {
		index, err = search.NewIndex(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
	}

	catalogRepo := &repo.GormRepo{DB: database}
	svc := &service.CatalogService{Repo: catalogRepo, Producer: producer, Index: index}
	verifier := authclient.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mw := &authmw.Middleware{Verifier: verifier}

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	pruner := limiter.StartPruner()
	defer pruner.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())
	e.Use(secure.Origin(secure.AllowList(cfg)))
	e.Use(ratelimit.Middleware(limiter))

	httpserver.Register(e, &httpserver.Deps{
		Products: &httpserver.ProductHandler{Svc: svc},
		Auth:     &httpserver.AuthHandler{Cfg: cfg, Client: verifier},
		Health:   &httpserver.HealthHandler{Cfg: cfg, Svc: svc, Index: index},
		AuthMW:   mw,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("catalog-api listening on %s", srv.Addr)
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

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("catalog-api stopped")
}
