// GET    /health                  # Состояние сервиса
// GET    /metrics                 # Метрики Prometheus
// POST   /users/                  # Новая актуальная запись пользователя
// GET    /users/{user_id}         # Актуальная запись
// PUT    /users/{user_id}         # Обновить актуальную запись
// DELETE /users/{user_id}         # Удалить все записи пользователя
// GET    /users/{user_id}/history # Все записи пользователя

package api

import (
	"net/http"

	healthAPI "usersvc/internal/app/server/api/http/health"
	"usersvc/internal/app/server/api/http/middleware"
	"usersvc/internal/app/server/api/http/middleware/logger"
	userAPI "usersvc/internal/app/server/api/http/user"
	"usersvc/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register.
// store нужен для /health, metrics может быть nil, тогда /metrics не публикуется.
func New(service user.Servicer, store healthAPI.Pinger, metrics http.Handler, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Users API", "1.0.0")
	// тела ответов без ссылки на $schema
	config.CreateHooks = nil

	API := humachi.New(mux, config)

	h := handlers(service, store, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return mux
}

func handlers(service user.Servicer, store healthAPI.Pinger, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(store, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
	}
}
