package user

import (
	"github.com/spf13/cobra"

	"usersvc/internal/app/client"
)

var updateProfile profileFlags

var updateCmd = &cobra.Command{
	Use:   "update [user_id]",
	Short: "Обновить актуальную запись пользователя",
	Long: `Перезаписывает имя, фамилию, возраст, рост и вес актуальной записи.
Не заданные флагами поля очищаются.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		req := client.UpdateRequest{UserName: updateProfile.name}
		req.UserSurname, req.Age, req.Height, req.Weight = updateProfile.optional(cmd.Flags())

		rec, err := app.UpdateUser(cmd.Context(), userID, req)
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

func init() {
	updateProfile.register(updateCmd.Flags())
	_ = updateCmd.MarkFlagRequired("name")
}
