// Package carbuddy собирает основное API-приложение: хранилище,
// миграции, кэш, сервисы и HTTP-сервер с graceful shutdown.
package carbuddy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/carbuddy/backend/internal/cache"
	"github.com/carbuddy/backend/internal/config"
	"github.com/carbuddy/backend/internal/lib/jwt"
	"github.com/carbuddy/backend/internal/migrations"
	authservice "github.com/carbuddy/backend/internal/services/auth"
	carservice "github.com/carbuddy/backend/internal/services/car"
	expenseservice "github.com/carbuddy/backend/internal/services/expense"
	planservice "github.com/carbuddy/backend/internal/services/plan"
	pushsubservice "github.com/carbuddy/backend/internal/services/pushsub"
	repairservice "github.com/carbuddy/backend/internal/services/repair"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// App представляет основное API-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает хранилище и кэш, накатывает
// миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	userMaker := jwt.NewMaker(cfg.UserSecretKey, cfg.TokenTTL)
	adminMaker := jwt.NewMaker(cfg.AdminSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, userMaker)
	adminService := authservice.NewAdminService(db, adminMaker)
	carService := carservice.NewCarService(db, cacheRedis, logger)
	repairService := repairservice.NewRepairService(db, carService)
	expenseService := expenseservice.NewExpenseService(db, carService)
	planService := planservice.NewPlanService(db, carService)
	pushService := pushsubservice.NewPushSubService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:     authService,
		Admin:    adminService,
		Cars:     carService,
		Repairs:  repairService,
		Expenses: expenseService,
		Plans:    planService,
		Push:     pushService,
		Storage:  db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
