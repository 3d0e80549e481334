package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "user-create",
		Method:        http.MethodPost,
		Path:          "/users/",
		Summary:       "Создание актуальной записи пользователя",
		Description:   "Прежние записи с тем же user_id становятся историческими",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusForbidden, http.StatusConflict, http.StatusInternalServerError},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-get",
		Method:      http.MethodGet,
		Path:        "/users/{user_id}",
		Summary:     "Актуальная запись пользователя",
		Tags:        []string{"users"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-update",
		Method:      http.MethodPut,
		Path:        "/users/{user_id}",
		Summary:     "Обновление актуальной записи",
		Tags:        []string{"users"},
		Errors:      []int{http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-delete",
		Method:      http.MethodDelete,
		Path:        "/users/{user_id}",
		Summary:     "Удаление всех записей пользователя",
		Tags:        []string{"users"},
		Errors:      []int{http.StatusConflict, http.StatusInternalServerError},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-history",
		Method:      http.MethodGet,
		Path:        "/users/{user_id}/history",
		Summary:     "Все записи пользователя в порядке добавления",
		Tags:        []string{"users"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
		Middlewares: h.middleware,
	}
}
