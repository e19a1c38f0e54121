package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avolkov/warehouse/internal/config"
	"github.com/avolkov/warehouse/internal/events"
	"github.com/avolkov/warehouse/internal/httpserver"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/repo"
	"github.com/avolkov/warehouse/internal/search"
	"github.com/avolkov/warehouse/internal/service"
	pkgdb "github.com/avolkov/warehouse/pkg/db"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL).With("service", "warehouse")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL())
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if err := pkgdb.SeedAdmin(db, cfg.ADMIN_PASSWORD); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		topic := cfg.KAFKA_TOPIC
		if topic == "" {
			topic = "inventory_events"
		}
		producer = events.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","), topic)
		defer producer.Close()
	}

	gormRepo := &repo.GormRepo{DB: db}

	productSearch := &search.ProductSearch{Repo: gormRepo}
	if cfg.ES_URL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, falling back to store search", "error", err)
		} else {
			productSearch.ES = esClient
		}
	}

	inventorySvc := &service.InventoryService{Repo: gormRepo}
	statsSvc := &service.StatsService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(httpserver.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHandler{Auth: authSvc, Producer: producer},
		ProductHandler:  &httpserver.ProductHandler{Svc: inventorySvc, Search: productSearch, Producer: producer},
		CategoryHandler: &httpserver.CategoryHandler{Svc: inventorySvc, Producer: producer},
		SaleHandler:     &httpserver.SaleHandler{Svc: inventorySvc, Producer: producer},
		AdminHandler:    &httpserver.AdminHandler{Svc: statsSvc},
		AuthMW:          &httpserver.AuthMiddleware{Auth: authSvc},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.SERVER_PORT,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}
	if srv.Addr == ":" {
		srv.Addr = ":8080"
	}

	go func() {
		log.Printf("warehouse listening on %s", srv.Addr)
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

	log.Println("warehouse stopped")
}
