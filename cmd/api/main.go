package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dmreyes-dev/partstream-backend/api/routes"
	"github.com/dmreyes-dev/partstream-backend/internal/auth"
	category "github.com/dmreyes-dev/partstream-backend/internal/categories"
	inquiry "github.com/dmreyes-dev/partstream-backend/internal/inquiries"
	product "github.com/dmreyes-dev/partstream-backend/internal/products"
	"github.com/dmreyes-dev/partstream-backend/internal/stats"
	"github.com/dmreyes-dev/partstream-backend/internal/users"
	"github.com/dmreyes-dev/partstream-backend/pkg/auth/session"
	"github.com/dmreyes-dev/partstream-backend/pkg/cache"
	"github.com/dmreyes-dev/partstream-backend/pkg/config"
	"github.com/dmreyes-dev/partstream-backend/pkg/db"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
	"github.com/dmreyes-dev/partstream-backend/pkg/metrics"
	"github.com/dmreyes-dev/partstream-backend/pkg/migrate"
	"github.com/dmreyes-dev/partstream-backend/pkg/redis"
	"github.com/dmreyes-dev/partstream-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Closers run in reverse on shutdown; their errors are combined so one
	// noisy dependency cannot hide another's failure.
	var closers []func() error
	defer func() {
		var combined error
		for i := len(closers) - 1; i >= 0; i-- {
			combined = multierr.Append(combined, closers[i]())
		}
		if combined != nil {
			logg.Error(context.Background(), "error closing resources", combined)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	closers = append(closers, redisClient.Close)

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		closers = append(closers, gcsClient.Close)
	} else {
		logg.Warn(context.Background(), "no storage bucket configured, image uploads disabled")
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cacheMetrics := metrics.NewCacheMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	categoryRepo := category.NewRepository(dbClient.DB())
	categoryService, err := category.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := newProductService(cfg, dbClient, gcsClient, productRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	inquiryRepo := inquiry.NewRepository(dbClient.DB())
	inquiryService, err := inquiry.NewService(inquiryRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inquiry service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		GCS:             gcsPinger(gcsClient),
		Sessions:        sessions,
		CacheStore:      cache.NewRedisStore(redisClient),
		HTTPMetrics:     httpMetrics,
		CacheMetrics:    cacheMetrics,
		Gatherer:        registry,
		AuthService:     authService,
		CategoryService: categoryService,
		ProductService:  productService,
		InquiryService:  inquiryService,
		StatsService:    statsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func newProductService(cfg *config.Config, dbClient *db.Client, gcsClient *gcs.Client, repo *product.Repository, categories *category.Repository) (product.Service, error) {
	if gcsClient == nil {
		return product.NewService(repo, dbClient, categories, nil)
	}
	return product.NewService(repo, dbClient, categories, gcsClient.BucketHandle(cfg.GCS.BucketName))
}

// gcsPinger avoids handing the readiness probe a non-nil interface wrapping
// a nil client.
func gcsPinger(client *gcs.Client) interface{ Ping(ctx context.Context) error } {
	if client == nil {
		return nil
	}
	return client
}
