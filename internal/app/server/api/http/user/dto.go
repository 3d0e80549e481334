package user

import (
	"github.com/danielgtaylor/huma/v2"

	"usersvc/internal/domain/user"
)

type userIDPath struct {
	UserID int `path:"user_id" example:"5" doc:"Идентификатор пользователя"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	UserID      int        `json:"user_id" example:"5" doc:"Идентификатор пользователя"`
	UserName    string     `json:"user_name" example:"Иван"`
	UserSurname *string    `json:"user_surname,omitempty" nullable:"true" example:"Петров"`
	Age         *int       `json:"age,omitempty" nullable:"true" example:"41"`
	Height      *int       `json:"height,omitempty" nullable:"true" example:"180"`
	Weight      *float64   `json:"weight,omitempty" nullable:"true" example:"80.5"`
	TimeOfAdd   *string    `json:"time_of_add,omitempty" example:"2024-03-08T10:30:00Z" doc:"Время добавления (RFC 3339 или ISO 8601 без пояса, тогда UTC), по умолчанию текущее"`
	IsActual    *bool      `json:"is_actual,omitempty" nullable:"true" doc:"Должно быть true"`
}

func (r createRequest) record() (user.Record, error) {
	rec := user.Record{
		UserID:      r.UserID,
		UserName:    r.UserName,
		UserSurname: r.UserSurname,
		Age:         r.Age,
		Height:      r.Height,
		Weight:      r.Weight,
		IsActual:    r.IsActual,
	}
	if r.TimeOfAdd != nil {
		t, err := user.ParseTime(*r.TimeOfAdd)
		if err != nil {
			return user.Record{}, huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
				Message:  err.Error(),
				Location: "body.time_of_add",
				Value:    *r.TimeOfAdd,
			})
		}
		rec.TimeOfAdd = t
	}
	return rec, nil
}

type updateInput struct {
	UserID int `path:"user_id" example:"5" doc:"Идентификатор пользователя"`
	Body   updateRequest
}

// updateRequest - изменяемые поля. user_id, time_of_add и is_actual
// принимаются для совместимости со старыми клиентами и игнорируются.
type updateRequest struct {
	UserName    string     `json:"user_name" example:"Иван"`
	UserSurname *string    `json:"user_surname,omitempty" nullable:"true"`
	Age         *int       `json:"age,omitempty" nullable:"true"`
	Height      *int       `json:"height,omitempty" nullable:"true"`
	Weight      *float64   `json:"weight,omitempty" nullable:"true"`
	UserID      *int       `json:"user_id,omitempty" nullable:"true" doc:"Игнорируется"`
	TimeOfAdd   *string    `json:"time_of_add,omitempty" doc:"Игнорируется"`
	IsActual    *bool      `json:"is_actual,omitempty" nullable:"true" doc:"Игнорируется"`
}

func (r updateRequest) info() user.Info {
	return user.Info{
		UserName:    r.UserName,
		UserSurname: r.UserSurname,
		Age:         r.Age,
		Height:      r.Height,
		Weight:      r.Weight,
	}
}

type recordOutput struct {
	Body user.Record
}

type historyOutput struct {
	Body []user.Record
}

type deleteOutput struct {
	Body DeleteResponse
}

type DeleteResponse struct {
	Message string `json:"message" example:"User with ID 5 has been marked as deleted."`
}
