// Package server boots the HTTP application: configuration, database,
// cache, storage, migrations, seeding, routes, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/webshop-inventory/app/controllers"
	"github.com/shashiranjanraj/webshop-inventory/app/repositories"
	"github.com/shashiranjanraj/webshop-inventory/app/routes"
	"github.com/shashiranjanraj/webshop-inventory/app/services"
	"github.com/shashiranjanraj/webshop-inventory/config"
	"github.com/shashiranjanraj/webshop-inventory/database/seeders"
	"github.com/shashiranjanraj/webshop-inventory/pkg/cache"
	"github.com/shashiranjanraj/webshop-inventory/pkg/database"
	"github.com/shashiranjanraj/webshop-inventory/pkg/logger"
	"github.com/shashiranjanraj/webshop-inventory/pkg/metrics"
	"github.com/shashiranjanraj/webshop-inventory/pkg/middleware"
	"github.com/shashiranjanraj/webshop-inventory/pkg/migration"
	"github.com/shashiranjanraj/webshop-inventory/pkg/reqid"
	"github.com/shashiranjanraj/webshop-inventory/pkg/router"
	"github.com/shashiranjanraj/webshop-inventory/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Boot prepares everything the application needs short of listening:
// config, database, cache, storage, migrations, and seed data.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// The app works without a cache; reads just always hit the DB.
		logger.Warn("cache disabled", "error", err)
	}
	storage.Connect()

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}
	if err := seeders.RunAll(database.DB); err != nil {
		return err
	}
	return nil
}

// BuildRouter wires repositories, services, controllers, and the middleware
// stack into the application router.
func BuildRouter() *router.Router {
	productRepo := repositories.NewProductRepository(database.DB)
	categoryRepo := repositories.NewCategoryRepository(database.DB)

	productService := services.NewProductService(productRepo, categoryRepo, storage.Default(), config.UploadsDir())
	categoryService := services.NewCategoryService(categoryRepo)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, controllers.NewProductsController(productService), controllers.NewCategoriesController(categoryService))
	return r
}

// Start boots the application and serves HTTP until SIGINT/SIGTERM, then
// drains in-flight requests before returning.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	r := BuildRouter()
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
