package user

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"usersvc/internal/domain/user"
)

const (
	msgNotActual = "Not actual record"
	msgNotFound  = "User not found"
	msgConflict  = "Store was modified concurrently, retry the request"
	msgInternal  = "Internal server error"
)

// errorToHuma переводит ошибки сервиса в ответы API
func errorToHuma(err error) error {
	switch {
	case errors.Is(err, user.ErrNotActual):
		return huma.Error403Forbidden(msgNotActual)
	case errors.Is(err, user.ErrNotFound):
		return huma.Error404NotFound(msgNotFound)
	case errors.Is(err, user.ErrConflict):
		return huma.Error409Conflict(msgConflict)
	default:
		return huma.Error500InternalServerError(msgInternal)
	}
}
