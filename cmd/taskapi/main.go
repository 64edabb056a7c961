package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amansingh80/task-management-backend-complete/internal/auth"
	"github.com/Amansingh80/task-management-backend-complete/internal/config"
	"github.com/Amansingh80/task-management-backend-complete/internal/handlers"
	"github.com/Amansingh80/task-management-backend-complete/internal/health"
	"github.com/Amansingh80/task-management-backend-complete/internal/httpmiddleware"
	"github.com/Amansingh80/task-management-backend-complete/internal/logging"
	"github.com/Amansingh80/task-management-backend-complete/internal/metrics"
	"github.com/Amansingh80/task-management-backend-complete/internal/security"
	"github.com/Amansingh80/task-management-backend-complete/internal/service"
	"github.com/Amansingh80/task-management-backend-complete/internal/storage"
	"github.com/Amansingh80/task-management-backend-complete/internal/token"
	"github.com/Amansingh80/task-management-backend-complete/internal/trace"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"log/slog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg)

	shutdownTracer, err := trace.Init(cfg.ServiceName, cfg.Env, cfg.Trace.OTLPEndpoint)
	if err != nil {
		logger.Error("tracer init failed", "error", err)
	} else {
		defer func() {
			_ = shutdownTracer(context.Background())
		}()
	}

	if cfg.Env == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	components := []string{"database"}
	if cfg.Ledger.Backend == "redis" {
		components = append(components, "redis")
	}
	ready := health.NewManager(components...)

	pool, err := connectDB(cfg)
	if err != nil {
		logger.Error("db connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	ready.SetReady("database", true)

	store := storage.New(pool)

	ledger, ledgerClose, err := buildLedger(cfg, store)
	if err != nil {
		logger.Error("token ledger init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = ledgerClose()
	}()
	if cfg.Ledger.Backend == "redis" {
		ready.SetReady("redis", true)
	}

	codec := token.NewCodec(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := security.Hasher{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}

	authService := service.NewAuth(store, ledger, codec, hasher)

	router := gin.New()
	router.Use(httpmiddleware.RequestID())
	router.Use(httpmiddleware.Logger(logger))
	router.Use(httpmiddleware.Recovery(logger))
	router.Use(trace.Middleware(cfg.ServiceName))

	router.GET("/healthz", health.LivenessHandler)
	router.GET("/readyz", health.ReadinessHandler(ready))
	router.GET(cfg.MetricsPath, gin.WrapH(metrics.Handler(registry)))

	handlers.NewAuthHandler(authService, logger).RegisterRoutes(router)
	handlers.NewTaskHandler(store, logger).RegisterRoutes(router, auth.Middleware(codec))

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("task api starting", "addr", addr, "ledger", cfg.Ledger.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(server, logger)
}

func connectDB(cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DB.URL())
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func buildLedger(cfg *config.Config, store *storage.Store) (service.TokenLedger, func() error, error) {
	if cfg.Ledger.Backend != "redis" {
		return store, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Ledger.Redis.Addr,
		Password: cfg.Ledger.Redis.Password,
		DB:       cfg.Ledger.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return storage.NewRedisLedger(client, cfg.Ledger.Redis.Prefix), client.Close, nil
}

func waitForShutdown(server *http.Server, logger *slog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutdown started")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return
	}
	logger.Info("shutdown complete")
}
