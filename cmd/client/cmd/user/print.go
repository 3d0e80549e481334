package user

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domain "usersvc/internal/domain/user"
)

const timeLayout = "2006-01-02 15:04:05"

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool(JSONFlag)
	return v
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printRecord(cmd *cobra.Command, rec domain.Record) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), rec)
	}
	writeRecord(cmd.OutOrStdout(), rec)
	return nil
}

func printHistory(cmd *cobra.Command, records []domain.Record) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), records)
	}
	w := cmd.OutOrStdout()
	for i, rec := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeRecord(w, rec)
	}
	return nil
}

func printMessage(cmd *cobra.Command, msg string) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), map[string]string{"message": msg})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("✓"), msg)
	return nil
}

func writeRecord(w io.Writer, rec domain.Record) {
	state := color.YellowString("историческая")
	if rec.Actual() {
		state = color.GreenString("актуальная")
	}

	fmt.Fprintf(w, "ID:        %s\n", color.CyanString(strconv.Itoa(rec.UserID)))
	fmt.Fprintf(w, "Имя:       %s\n", rec.UserName)
	fmt.Fprintf(w, "Фамилия:   %s\n", orDash(rec.UserSurname))
	fmt.Fprintf(w, "Возраст:   %s\n", orDash(rec.Age))
	fmt.Fprintf(w, "Рост:      %s\n", orDash(rec.Height))
	fmt.Fprintf(w, "Вес:       %s\n", orDash(rec.Weight))
	fmt.Fprintf(w, "Добавлена: %s\n", rec.TimeOfAdd.Format(timeLayout))
	fmt.Fprintf(w, "Запись:    %s\n", state)
}

func orDash[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
