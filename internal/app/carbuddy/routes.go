// Package carbuddy предоставляет маршруты основного приложения.
package carbuddy

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/carbuddy/backend/internal/http/handlers/admin/adminlogin"
	"github.com/carbuddy/backend/internal/http/handlers/admin/userban"
	"github.com/carbuddy/backend/internal/http/handlers/auth/login"
	"github.com/carbuddy/backend/internal/http/handlers/auth/logout"
	"github.com/carbuddy/backend/internal/http/handlers/auth/register"
	"github.com/carbuddy/backend/internal/http/handlers/car/carcreate"
	"github.com/carbuddy/backend/internal/http/handlers/car/carlist"
	"github.com/carbuddy/backend/internal/http/handlers/car/carread"
	"github.com/carbuddy/backend/internal/http/handlers/car/carremove"
	"github.com/carbuddy/backend/internal/http/handlers/car/carupdate"
	"github.com/carbuddy/backend/internal/http/handlers/expense/expensecreate"
	"github.com/carbuddy/backend/internal/http/handlers/expense/expenselist"
	"github.com/carbuddy/backend/internal/http/handlers/health"
	"github.com/carbuddy/backend/internal/http/handlers/plan/plandisable"
	"github.com/carbuddy/backend/internal/http/handlers/plan/planread"
	"github.com/carbuddy/backend/internal/http/handlers/plan/planupsert"
	"github.com/carbuddy/backend/internal/http/handlers/profile/passwordchange"
	"github.com/carbuddy/backend/internal/http/handlers/profile/profileread"
	"github.com/carbuddy/backend/internal/http/handlers/profile/profileupdate"
	"github.com/carbuddy/backend/internal/http/handlers/push/pushsubscribe"
	"github.com/carbuddy/backend/internal/http/handlers/push/pushunsubscribe"
	"github.com/carbuddy/backend/internal/http/handlers/repair/repaircreate"
	"github.com/carbuddy/backend/internal/http/handlers/repair/repairlist"
	"github.com/carbuddy/backend/internal/http/middlewarectx"
	authservice "github.com/carbuddy/backend/internal/services/auth"
	carservice "github.com/carbuddy/backend/internal/services/car"
	expenseservice "github.com/carbuddy/backend/internal/services/expense"
	planservice "github.com/carbuddy/backend/internal/services/plan"
	pushsubservice "github.com/carbuddy/backend/internal/services/pushsub"
	repairservice "github.com/carbuddy/backend/internal/services/repair"
	"github.com/carbuddy/backend/internal/storage/repository"
)

// Services — зависимости маршрутов.
type Services struct {
	Auth     *authservice.AuthService
	Admin    *authservice.AdminService
	Cars     *carservice.CarService
	Repairs  *repairservice.RepairService
	Expenses *expenseservice.ExpenseService
	Plans    *planservice.PlanService
	Push     *pushsubservice.PushSubService
	Storage  *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/admin/login", adminlogin.New(logger, s.Admin).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(logger, s.Auth))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)

			r.Post("/cars", carcreate.New(logger, s.Cars).ServeHTTP)
			r.Get("/cars", carlist.New(logger, s.Cars).ServeHTTP)
			r.Get("/cars/{uid}", carread.New(logger, s.Cars).ServeHTTP)
			r.Put("/cars/{uid}", carupdate.New(logger, s.Cars).ServeHTTP)
			r.Delete("/cars/{uid}", carremove.New(logger, s.Cars).ServeHTTP)

			r.Post("/cars/{uid}/repairs", repaircreate.New(logger, s.Repairs).ServeHTTP)
			r.Get("/cars/{uid}/repairs", repairlist.New(logger, s.Repairs).ServeHTTP)

			r.Post("/cars/{uid}/expenses", expensecreate.New(logger, s.Expenses).ServeHTTP)
			r.Get("/cars/{uid}/expenses", expenselist.New(logger, s.Expenses).ServeHTTP)

			// Чтение плана доступно всем владельцам, мутации — премиуму
			r.Get("/cars/{uid}/fluidcheck", planread.New(logger, s.Plans).ServeHTTP)
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(logger))
				r.Put("/cars/{uid}/fluidcheck", planupsert.New(logger, s.Plans).ServeHTTP)
				r.Delete("/cars/{uid}/fluidcheck", plandisable.New(logger, s.Plans).ServeHTTP)
			})

			r.Post("/push/subscribe", pushsubscribe.New(logger, s.Push).ServeHTTP)
			r.Delete("/push/subscribe", pushunsubscribe.New(logger, s.Push).ServeHTTP)

			r.Get("/profile", profileread.New(logger).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, s.Auth).ServeHTTP)
			r.Put("/profile/password", passwordchange.New(logger, s.Auth).ServeHTTP)
		})

		// Группа администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminAuthMiddleware(logger, s.Admin))
			r.Post("/admin/users/{uid}/ban", userban.New(logger, s.Admin).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
