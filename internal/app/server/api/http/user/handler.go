package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"usersvc/internal/app/server/api/http/middleware/logger"
	"usersvc/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "user_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.historyOp(), h.history)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*recordOutput, error) {
	rec, err := input.Body.record()
	if err != nil {
		return nil, err
	}

	rec, err = h.service.Create(ctx, rec)
	if err != nil {
		return nil, h.fail(ctx, "create", input.Body.UserID, err)
	}
	return &recordOutput{Body: rec}, nil
}

func (h *Handler) get(ctx context.Context, input *userIDPath) (*recordOutput, error) {
	rec, err := h.service.Get(ctx, input.UserID)
	if err != nil {
		return nil, h.fail(ctx, "get", input.UserID, err)
	}
	return &recordOutput{Body: rec}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*recordOutput, error) {
	rec, err := h.service.Update(ctx, input.UserID, input.Body.info())
	if err != nil {
		return nil, h.fail(ctx, "update", input.UserID, err)
	}
	return &recordOutput{Body: rec}, nil
}

func (h *Handler) delete(ctx context.Context, input *userIDPath) (*deleteOutput, error) {
	if _, err := h.service.Delete(ctx, input.UserID); err != nil {
		return nil, h.fail(ctx, "delete", input.UserID, err)
	}
	return &deleteOutput{
		Body: DeleteResponse{
			Message: fmt.Sprintf("User with ID %d has been marked as deleted.", input.UserID),
		},
	}, nil
}

func (h *Handler) history(ctx context.Context, input *userIDPath) (*historyOutput, error) {
	records, err := h.service.History(ctx, input.UserID)
	if err != nil {
		return nil, h.fail(ctx, "history", input.UserID, err)
	}
	return &historyOutput{Body: records}, nil
}

// fail логирует серверные ошибки и возвращает ответ API
func (h *Handler) fail(ctx context.Context, op string, userID int, err error) error {
	if !errors.Is(err, user.ErrNotActual) && !errors.Is(err, user.ErrNotFound) {
		h.log.Error("request failed",
			"operation", op,
			"user_id", userID,
			"request_id", logger.RequestID(ctx),
			"error", err,
		)
	}
	return errorToHuma(err)
}
