package user

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// JSONFlag - глобальный флаг вывода в JSON
const JSONFlag = "json"

// UserCmd - родительская команда для всех операций с пользователями
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Управление пользователями",
	Long:  `Создание, просмотр, обновление и удаление записей пользователей.`,
}

func init() {
	UserCmd.AddCommand(createCmd, getCmd, updateCmd, deleteCmd, historyCmd)
}

func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("неверный ID пользователя %q: %w", arg, err)
	}
	return id, nil
}

// profileFlags - изменяемые поля записи
type profileFlags struct {
	name    string
	surname string
	age     int
	height  int
	weight  float64
}

func (p *profileFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.name, "name", "", "имя")
	fs.StringVar(&p.surname, "surname", "", "фамилия")
	fs.IntVar(&p.age, "age", 0, "возраст")
	fs.IntVar(&p.height, "height", 0, "рост, см")
	fs.Float64Var(&p.weight, "weight", 0, "вес, кг")
}

// optional возвращает указатели только для явно заданных флагов
func (p *profileFlags) optional(fs *pflag.FlagSet) (surname *string, age, height *int, weight *float64) {
	if fs.Changed("surname") {
		surname = &p.surname
	}
	if fs.Changed("age") {
		age = &p.age
	}
	if fs.Changed("height") {
		height = &p.height
	}
	if fs.Changed("weight") {
		weight = &p.weight
	}
	return surname, age, height, weight
}
