package health

const (
	StatusOK          = "OK"
	StatusUnavailable = "UNAVAILABLE"

	storageUp   = "up"
	storageDown = "down"
)

type Input struct{}

// Output - код ответа зависит от доступности хранилища
type Output struct {
	Status int
	Body   Response
}

type Response struct {
	Status  string `json:"status" enum:"OK,UNAVAILABLE" example:"OK" doc:"Общее состояние сервиса"`
	Storage string `json:"storage" enum:"up,down" example:"up" doc:"Доступность хранилища записей"`
}
