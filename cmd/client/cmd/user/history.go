package user

import (
	"github.com/spf13/cobra"

	"usersvc/internal/app/client"
)

var historyCmd = &cobra.Command{
	Use:   "history [user_id]",
	Short: "Показать все записи пользователя",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		records, err := app.History(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printHistory(cmd, records)
	},
}
