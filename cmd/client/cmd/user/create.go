package user

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usersvc/internal/app/client"
)

var (
	createProfile  profileFlags
	createTime     string
	createInactive bool
)

var createCmd = &cobra.Command{
	Use:   "create [user_id]",
	Short: "Создать актуальную запись пользователя",
	Long: `Создаёт новую актуальную запись. Прежние записи с тем же ID
остаются в истории как неактуальные.`,
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

		req := client.CreateRequest{
			UserID:   userID,
			UserName: createProfile.name,
			IsActual: !createInactive,
		}
		req.UserSurname, req.Age, req.Height, req.Weight = createProfile.optional(cmd.Flags())

		if createTime != "" {
			t, err := time.Parse(time.RFC3339, createTime)
			if err != nil {
				return fmt.Errorf("неверное время добавления: %w", err)
			}
			req.TimeOfAdd = &t
		}

		rec, err := app.CreateUser(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

func init() {
	createProfile.register(createCmd.Flags())
	createCmd.Flags().StringVar(&createTime, "time", "", "время добавления в RFC 3339, по умолчанию текущее")
	createCmd.Flags().BoolVar(&createInactive, "inactive", false, "отправить неактуальную запись (сервер её отклонит)")
	_ = createCmd.MarkFlagRequired("name")
}
