package user

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayouts - допустимые форматы time_of_add.
// Метки без часового пояса считаются UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Record - одна сохранённая версия пользователя.
// Несколько записей могут иметь один UserID, актуальная среди них ровно одна.
type Record struct {
	ID          int64     `json:"-"`
	UserID      int       `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserSurname *string   `json:"user_surname"`
	Age         *int      `json:"age"`
	Height      *int      `json:"height"`
	Weight      *float64  `json:"weight"`
	TimeOfAdd   time.Time `json:"time_of_add"`
	IsActual    *bool     `json:"is_actual"`
}

// Info - изменяемые поля записи, которые перезаписывает Update
type Info struct {
	UserName    string
	UserSurname *string
	Age         *int
	Height      *int
	Weight      *float64
}

// Actual сообщает, является ли запись текущей версией
func (r Record) Actual() bool {
	return r.IsActual != nil && *r.IsActual
}

func (r *Record) setActual(v bool) {
	r.IsActual = &v
}

func (r *Record) apply(info Info) {
	r.UserName = info.UserName
	r.UserSurname = info.UserSurname
	r.Age = info.Age
	r.Height = info.Height
	r.Weight = info.Weight
}

// ParseTime разбирает время добавления в формате RFC 3339
// или ISO 8601 без часового пояса
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: expected RFC 3339 or ISO 8601 date-time", s)
}

// UnmarshalJSON принимает time_of_add в любом из форматов ParseTime
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		TimeOfAdd *string `json:"time_of_add"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.TimeOfAdd == nil || *aux.TimeOfAdd == "" {
		return nil
	}

	t, err := ParseTime(*aux.TimeOfAdd)
	if err != nil {
		return fmt.Errorf("time_of_add: %w", err)
	}
	r.TimeOfAdd = t
	return nil
}

// Revision - непрозрачная метка состояния хранилища
type Revision string
