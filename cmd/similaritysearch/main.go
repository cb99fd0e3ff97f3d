package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fafadlian/similaritySearch-V3/internal/config"
	logpkg "github.com/fafadlian/similaritySearch-V3/internal/logger"
	"github.com/fafadlian/similaritySearch-V3/internal/metrics"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/artifact"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/geodata"
	chiTransport "github.com/fafadlian/similaritySearch-V3/internal/transport/chi"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/classify"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/embed"
	healthuc "github.com/fafadlian/similaritySearch-V3/internal/usecase/health"
	searchuc "github.com/fafadlian/similaritySearch-V3/internal/usecase/search"
	"github.com/fafadlian/similaritySearch-V3/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting similarity search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("artifacts_dir", cfg.Artifacts.Dir),
		zap.Int("shards", len(cfg.Artifacts.Shards)),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	geoSvc, err := geodata.Load(cfg.Geodata.Path)
	if err != nil {
		logger.Fatal("Failed to load geodata", zap.Error(err))
	}
	logger.Info("Geodata loaded",
		zap.String("path", cfg.Geodata.Path),
		zap.Int("airports", geoSvc.Len()),
	)

	store, err := artifact.NewStore(cfg.Artifacts.Dir, cfg.Artifacts.CacheSize, logger)
	if err != nil {
		logger.Fatal("Failed to create artifact store", zap.Error(err))
	}

	embedder := embed.New(embed.Weights{
		Numeric:     cfg.Embedding.NumericWeight,
		Categorical: cfg.Embedding.CategoricalWeights,
		Name:        cfg.Embedding.NameWeight,
		Address:     cfg.Embedding.AddressWeight,
	})

	var classifier classify.Scorer
	if cfg.Classifier.Enabled {
		model, err := classify.LoadModel(cfg.Classifier.ModelPath)
		if err != nil {
			logger.Fatal("Failed to load classifier model", zap.Error(err))
		}
		classifier = model
		logger.Info("Classifier enabled", zap.String("model", cfg.Classifier.ModelPath))
	}

	searchSvc, err := searchuc.New(searchuc.Config{
		Shards:                  cfg.Artifacts.Shards,
		TopK:                    cfg.Search.TopK,
		MaxDistanceKm:           cfg.Search.MaxDistanceKm,
		MinCompoundScore:        cfg.Search.MinCompoundScore,
		DefaultNameThreshold:    cfg.Search.DefaultNameThreshold,
		DefaultAgeThreshold:     cfg.Search.DefaultAgeThreshold,
		MinClassifierConfidence: cfg.Classifier.MinConfidence,
		Weights: searchuc.Weights{
			Firstname:   cfg.Search.Weights.Firstname,
			Surname:     cfg.Search.Weights.Surname,
			DOB:         cfg.Search.Weights.DOB,
			Age:         cfg.Search.Weights.Age,
			Address:     cfg.Search.Weights.Address,
			Origin:      cfg.Search.Weights.Origin,
			Destination: cfg.Search.Weights.Destination,
		},
	}, store, geoSvc, embedder, classifier, logger)
	if err != nil {
		logger.Fatal("Failed to create search service", zap.Error(err))
	}

	healthSvc := healthuc.New(store, geoSvc)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
