package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/config"
	"github.com/harentsoaR/school-api/internal/handlers"
	"github.com/harentsoaR/school-api/internal/router"
	"github.com/harentsoaR/school-api/internal/store"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing LOG_LEVEL %q", level)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
}

func main() {
	cfg, foundEnv := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !foundEnv {
		logger.Info("No .env file found, relying on environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("port", cfg.Port),
		zap.String("apiPrefix", cfg.APIPrefix),
		zap.String("storeDriver", cfg.StoreDriver),
		zap.String("mongoDatabase", cfg.MongoDB),
		zap.Bool("authEnabled", cfg.AuthEnabled),
	)

	// --- Document store ---
	st, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			logger.Warn("Failed to close document store", zap.Error(err))
		}
	}()
	logger.Info("Document store ready", zap.String("driver", cfg.StoreDriver))

	// --- Router ---
	gin.SetMode(cfg.GinMode)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), connectTimeout)
	r, users, err := router.New(setupCtx, router.Options{Config: cfg, Store: st, Logger: logger, Registry: reg})
	cancelSetup()
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	if cfg.AuthEnabled && cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := handlers.EnsureAdmin(context.Background(), users, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("Failed to create admin user", zap.Error(err))
		}
		if created {
			logger.Info("Created admin user", zap.String("username", cfg.AdminUsername))
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("docs", "/docs/index.html"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
}
