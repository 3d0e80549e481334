package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"usersvc/internal/app/client/config"
	"usersvc/internal/domain/user"
)

// CreateRequest - тело POST /users/
type CreateRequest struct {
	UserID      int        `json:"user_id"`
	UserName    string     `json:"user_name"`
	UserSurname *string    `json:"user_surname,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Height      *int       `json:"height,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	TimeOfAdd   *time.Time `json:"time_of_add,omitempty"`
	IsActual    bool       `json:"is_actual"`
}

// UpdateRequest - тело PUT /users/{user_id}
type UpdateRequest struct {
	UserName    string   `json:"user_name"`
	UserSurname *string  `json:"user_surname"`
	Age         *int     `json:"age"`
	Height      *int     `json:"height"`
	Weight      *float64 `json:"weight"`
}

// APIError - ответ сервера с кодом 4xx/5xx
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ошибка сервера: статус %d", e.Status)
	}
	return fmt.Sprintf("ошибка сервера (%d): %s", e.Status, e.Detail)
}

// IsNotFound сообщает, что сервер ответил 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// App - клиент API пользователей, каждый вызов ограничен RequestTimeout
type App struct {
	config *config.Config
	log    *slog.Logger
	api    *httpClient
}

func New(cfg *config.Config, log *slog.Logger) *App {
	return &App{
		config: cfg,
		log:    log,
		api:    newHTTPClient(cfg.BaseURL(), cfg.RequestTimeout, log),
	}
}

func (a *App) CheckConnection(ctx context.Context) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.HealthCheck(ctx)
}

func (a *App) CreateUser(ctx context.Context, req CreateRequest) (user.Record, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.CreateUser(ctx, req)
}

func (a *App) GetUser(ctx context.Context, userID int) (user.Record, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.GetUser(ctx, userID)
}

func (a *App) UpdateUser(ctx context.Context, userID int, req UpdateRequest) (user.Record, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.UpdateUser(ctx, userID, req)
}

func (a *App) DeleteUser(ctx context.Context, userID int) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.DeleteUser(ctx, userID)
}

func (a *App) History(ctx context.Context, userID int) ([]user.Record, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.api.History(ctx, userID)
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

type appKey struct{}

// WithApp кладёт клиент в контекст команды
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext достаёт клиент, положенный WithApp
func FromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}
