package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/callsight/callsight/internal/application"
	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appdashboard "github.com/callsight/callsight/internal/application/dashboard"
	"github.com/callsight/callsight/internal/config"
	domain "github.com/callsight/callsight/internal/domain/analysis"
	aiopenai "github.com/callsight/callsight/internal/infra/ai/openai"
	"github.com/callsight/callsight/internal/infra/audio"
	mysqlp "github.com/callsight/callsight/internal/infra/db/mysql"
	postgresp "github.com/callsight/callsight/internal/infra/db/postgres"
	"github.com/callsight/callsight/internal/infra/drive"
	"github.com/callsight/callsight/internal/infra/httpserver"
	"github.com/callsight/callsight/internal/infra/snapshot"
	minioStore "github.com/callsight/callsight/internal/infra/storage"
	"github.com/callsight/callsight/internal/middleware"
)

func main() {
	// .env opsional, env asli menang
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB sesuai driver
	var db *sql.DB
	var repo domain.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewAnalysisRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewAnalysisRepository(db)
	}
	defer db.Close()

	// snapshot store lokal
	snaps, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		log.Fatalf("snapshot store error: %v", err)
	}
	defer snaps.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init agen OpenAI
	aiClient := aiopenai.NewClient(cfg.OpenAI.APIKey, aiopenai.Config{
		TranscriptionModel:        cfg.OpenAI.TranscriptionModel,
		SummaryModel:              cfg.OpenAI.SummaryModel,
		EvaluationModel:           cfg.OpenAI.EvaluationModel,
		RecommendationModel:       cfg.OpenAI.RecommendationModel,
		TranscriptionTemperature:  cfg.OpenAI.TranscriptionTemperature,
		SummaryTemperature:        cfg.OpenAI.SummaryTemperature,
		EvaluationTemperature:     cfg.OpenAI.EvaluationTemperature,
		RecommendationTemperature: cfg.OpenAI.RecommendationTemp,
		SummaryMaxTokens:          cfg.OpenAI.SummaryMaxTokens,
		EvaluationMaxTokens:       cfg.OpenAI.EvaluationMaxTokens,
		RecommendationMaxTokens:   cfg.OpenAI.RecommendationMaxTokens,
	})

	analysisSvc := &appanalysis.Service{
		Repo:        repo,
		Artifacts:   store,
		Snapshots:   snaps,
		Transcriber: aiClient,
		Summarizer:  aiClient,
		Evaluator:   aiClient,
		Recommender: aiClient,
		Noise:       &audio.Analyzer{},
		Downloader:  drive.NewDownloader(),
		Clock:       application.SystemClock{},
	}

	dashboardSvc := &appdashboard.Service{
		Repo:      repo,
		Snapshots: snaps,
	}

	// init router + middleware
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestIDMiddleware)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
		mux.Use(middleware.RequireValidTenant)
	}

	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"snapshot": &middleware.StoreHealthChecker{Store: snaps},
	}))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, dashboardSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
		// analyze jalan sinkron: transcription + 3 chat call bisa lama
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
