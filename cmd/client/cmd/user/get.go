package user

import (
	"github.com/spf13/cobra"

	"usersvc/internal/app/client"
)

var getCmd = &cobra.Command{
	Use:   "get [user_id]",
	Short: "Показать актуальную запись пользователя",
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

		rec, err := app.GetUser(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}
