package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, rec user.Record) (user.Record, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(user.Record), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, userID int) (user.Record, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(user.Record), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, userID int, info user.Info) (user.Record, error) {
	args := m.Called(ctx, userID, info)
	return args.Get(0).(user.Record), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockService) History(ctx context.Context, userID int) ([]user.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.Record), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

var added = time.Date(2024, 3, 8, 10, 30, 0, 0, time.UTC)

func sample() user.Record {
	return user.Record{
		UserID:      5,
		UserName:    "Иван",
		UserSurname: ptr("Петров"),
		Age:         ptr(41),
		Weight:      ptr(80.5),
		TimeOfAdd:   added,
		IsActual:    ptr(true),
	}
}

func setup(t *testing.T) (humatest.TestAPI, *MockService) {
	t.Helper()
	_, api := humatest.New(t)
	svc := new(MockService)
	NewHandler(svc, slog.Default(), huma.Middlewares{}).SetupRoutes(api)
	return api, svc
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		serviceErr error
		wantCode   int
		wantBody   string
	}{
		{
			name: "created",
			body: map[string]any{
				"user_id": 5, "user_name": "Иван", "user_surname": "Петров", "age": 41,
				"height": nil, "weight": 80.5, "time_of_add": "2024-03-08T10:30:00Z", "is_actual": true,
			},
			wantCode: http.StatusOK,
			wantBody: `"user_name":"Иван"`,
		},
		{
			name: "not actual",
			body: map[string]any{
				"user_id": 5, "user_name": "Иван", "time_of_add": "2024-03-08T10:30:00Z", "is_actual": false,
			},
			serviceErr: user.ErrNotActual,
			wantCode:   http.StatusForbidden,
			wantBody:   "Not actual record",
		},
		{
			name: "write failed",
			body: map[string]any{
				"user_id": 5, "user_name": "Иван", "is_actual": true,
			},
			serviceErr: fmt.Errorf("create user: %w", user.ErrStoreWriteFailed),
			wantCode:   http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc := setup(t)
			svc.On("Create", mock.Anything, mock.MatchedBy(func(r user.Record) bool {
				return r.UserID == 5 && r.UserName == "Иван"
			})).Return(sample(), tt.serviceErr)

			resp := api.Post("/users/", tt.body)

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Create_PassesFields(t *testing.T) {
	api, svc := setup(t)

	var got user.Record
	svc.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(user.Record) }).
		Return(sample(), nil)

	resp := api.Post("/users/", map[string]any{
		"user_id": 5, "user_name": "Иван", "user_surname": nil, "age": 41,
		"time_of_add": "2024-03-08T13:30:00+03:00", "is_actual": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Nil(t, got.UserSurname)
	assert.Equal(t, 41, *got.Age)
	assert.True(t, got.Actual())
	assert.Equal(t, added, got.TimeOfAdd)
}

func TestHandler_Create_MissingTimeOfAdd(t *testing.T) {
	api, svc := setup(t)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(r user.Record) bool {
		return r.TimeOfAdd.IsZero()
	})).Return(sample(), nil)

	resp := api.Post("/users/", map[string]any{"user_id": 5, "user_name": "Иван", "is_actual": true})

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Create_TimeOfAddFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "rfc3339", in: "2024-03-08T10:30:00Z", want: added},
		{name: "without zone", in: "2024-03-08T10:30:00", want: added},
		{name: "without zone with microseconds", in: "2024-03-08T10:30:00.250000", want: added.Add(250 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc := setup(t)

			svc.On("Create", mock.Anything, mock.MatchedBy(func(r user.Record) bool {
				return r.TimeOfAdd.Equal(tt.want) && r.TimeOfAdd.Location() == time.UTC
			})).Return(sample(), nil)

			resp := api.Post("/users/", map[string]any{
				"user_id": 5, "user_name": "Иван", "time_of_add": tt.in, "is_actual": true,
			})

			assert.Equal(t, http.StatusOK, resp.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Create_InvalidTimeOfAdd(t *testing.T) {
	api, svc := setup(t)

	resp := api.Post("/users/", map[string]any{
		"user_id": 5, "user_name": "Иван", "time_of_add": "yesterday", "is_actual": true,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "body.time_of_add")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	api, svc := setup(t)

	resp := api.Post("/users/", map[string]any{"user_name": "no id", "is_actual": true})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		rec        user.Record
		serviceErr error
		wantCode   int
		wantBody   string
	}{
		{
			name:     "found",
			rec:      sample(),
			wantCode: http.StatusOK,
			wantBody: `"height":null`,
		},
		{
			name:       "not found",
			serviceErr: user.ErrNotFound,
			wantCode:   http.StatusNotFound,
			wantBody:   "User not found",
		},
		{
			name:       "store unavailable",
			serviceErr: user.ErrStoreUnavailable,
			wantCode:   http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc := setup(t)
			svc.On("Get", mock.Anything, 5).Return(tt.rec, tt.serviceErr)

			resp := api.Get("/users/5")

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantCode   int
	}{
		{name: "updated", wantCode: http.StatusOK},
		{name: "not found", serviceErr: user.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "conflict", serviceErr: fmt.Errorf("update user: %w", user.ErrConflict), wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc := setup(t)
			want := user.Info{UserName: "X", Age: ptr(42)}
			svc.On("Update", mock.Anything, 5, want).Return(sample(), tt.serviceErr)

			// старые клиенты присылают запись целиком
			resp := api.Put("/users/5", map[string]any{
				"user_id": 99, "user_name": "X", "age": 42, "user_surname": nil,
				"time_of_add": "2024-03-08T10:30:00", "is_actual": false,
			})

			assert.Equal(t, tt.wantCode, resp.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	api, svc := setup(t)
	svc.On("Delete", mock.Anything, 5).Return(3, nil)

	resp := api.Delete("/users/5")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"message":"User with ID 5 has been marked as deleted."`)
}

func TestHandler_Delete_Missing(t *testing.T) {
	api, svc := setup(t)
	svc.On("Delete", mock.Anything, 999).Return(0, nil)

	resp := api.Delete("/users/999")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "User with ID 999 has been marked as deleted.")
}

func TestHandler_Delete_WriteFailed(t *testing.T) {
	api, svc := setup(t)
	svc.On("Delete", mock.Anything, 5).Return(0, fmt.Errorf("delete user: %w", user.ErrStoreWriteFailed))

	resp := api.Delete("/users/5")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "marked as deleted")
}

func TestHandler_History(t *testing.T) {
	api, svc := setup(t)
	old := sample()
	old.IsActual = ptr(false)
	svc.On("History", mock.Anything, 5).Return([]user.Record{old, sample()}, nil)
	svc.On("History", mock.Anything, 6).Return(nil, user.ErrNotFound)

	resp := api.Get("/users/5/history")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"is_actual":false`)
	assert.Contains(t, resp.Body.String(), `"is_actual":true`)

	resp = api.Get("/users/6/history")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandler_InvalidPath(t *testing.T) {
	api, svc := setup(t)

	resp := api.Get("/users/abc")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestErrorToHuma(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: user.ErrNotActual, code: http.StatusForbidden},
		{err: fmt.Errorf("wrap: %w", user.ErrNotFound), code: http.StatusNotFound},
		{err: user.ErrConflict, code: http.StatusConflict},
		{err: user.ErrStoreUnavailable, code: http.StatusInternalServerError},
		{err: user.ErrStoreWriteFailed, code: http.StatusInternalServerError},
		{err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var se huma.StatusError
			require.ErrorAs(t, errorToHuma(tt.err), &se)
			assert.Equal(t, tt.code, se.GetStatus())
		})
	}
}
