package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID:   "health-check",
		Method:        http.MethodGet,
		Path:          "/health",
		Summary:       "Состояние сервиса",
		Description:   "Проверяет доступность хранилища записей. 503, если хранилище недоступно.",
		Tags:          []string{"health"},
		DefaultStatus: http.StatusOK,
		Responses: map[string]*huma.Response{
			"503": {Description: "Хранилище недоступно"},
		},
		Middlewares: h.middleware,
	}
}
