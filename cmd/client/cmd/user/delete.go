package user

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"usersvc/internal/app/client"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [user_id]",
	Short: "Удалить все записи пользователя",
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

		// спрашиваем подтверждение только в интерактивном режиме
		if !deleteYes && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintf(cmd.OutOrStdout(), "Удалить все записи пользователя %d? [y/N]: ", userID)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Отменено")
				return nil
			}
		}

		msg, err := app.DeleteUser(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printMessage(cmd, msg)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "не спрашивать подтверждение")
}
