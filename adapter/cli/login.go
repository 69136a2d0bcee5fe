package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	identityDomain "github.com/felixgeelhaar/cmas/internal/identity/domain"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and attach the session to a user",
	Long: `Authenticate against the configured provider and attach the current
assessment session to the user. The username survives 'cmas clear'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		username := args[0]
		out := cmd.OutOrStdout()
		fmt.Fprint(out, "Password: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")

		user, err := app.Container.Authenticator.Authenticate(cmd.Context(), username, password)
		if err != nil {
			if errors.Is(err, identityDomain.ErrInvalidCredentials) {
				return errors.New("invalid credentials")
			}
			return err
		}
		app.CurrentUser = &user

		if user.Role == identityDomain.RolePatient {
			if err := app.Container.SessionStore.SetUsername(cmd.Context(), user.Username); err != nil {
				logger.Warn("username recorded in memory only", "error", err)
			}
			fmt.Fprintf(out, "Logged in as %s. Run 'cmas assess' to start the battery.\n", user.Username)
			return nil
		}

		fmt.Fprintf(out, "Logged in as %s (%s). Run 'cmas history' to view measurements.\n", user.Username, user.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
