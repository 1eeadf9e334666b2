package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/mind-engage/mindengage-insights/internal/api/http"
	"github.com/mind-engage/mindengage-insights/internal/config"
	"github.com/mind-engage/mindengage-insights/internal/db"
	"github.com/mind-engage/mindengage-insights/internal/history"
	"github.com/mind-engage/mindengage-insights/internal/insight"
	"github.com/mind-engage/mindengage-insights/internal/logging"
	"github.com/mind-engage/mindengage-insights/internal/metrics"
	"github.com/mind-engage/mindengage-insights/internal/storage"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- History store ---
	var store history.Store
	if cfg.DBDriver == "memory" {
		store = history.NewMemStore()
	} else {
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		store = history.NewSQLStore(dbh, cfg.DBDriver)
	}
	if n, err := store.Count(ctx); err == nil {
		metrics.HistoryRecords.Set(float64(n))
	}

	// --- Predictor ---
	var predictor insight.Predictor
	mode := insight.ModeLocal
	switch cfg.Mode {
	case config.ModeRemote:
		if cfg.PredictorURL == "" {
			logger.Fatal("remote mode requires PREDICTOR_URL")
		}
		predictor = predict.NewClient(predict.Config{
			Endpoint: cfg.PredictorURL,
			Timeout:  cfg.PredictorTimeout,
		})
		mode = insight.ModeRemote
	default:
		var opts []insight.Option
		if cfg.ModelVersion != "" {
			opts = append(opts, insight.WithModelVersion(cfg.ModelVersion))
		}
		predictor = insight.NewEngine(opts...)
	}

	svc := insight.NewService(mode, predictor, store, logger)

	// --- Export archive (optional) ---
	var archive storage.Archive
	if cfg.ExportDir != "" {
		fsArchive, err := storage.NewFSArchive(cfg.ExportDir)
		if err != nil {
			logger.Fatal("export archive", zap.Error(err))
		}
		archive = fsArchive
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/predictions", api.SubmitPredictionHandler(svc))
		ar.Get("/history", api.ListHistoryHandler(store))
		ar.Get("/history/export.csv", api.ExportCSVHandler(store, archive, logger))
		if archive != nil {
			ar.Route("/exports", func(er chi.Router) {
				api.MountExports(er, archive)
			})
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.Count(r.Context()); err != nil {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	})
	r.Handle("/metrics", promhttp.Handler())

	logger.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
