package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Sign in with your username and password. The password is read
without echo when the input is a terminal.

Examples:
  mylibrary-cli login
  mylibrary-cli login --username ada`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(cmd)

		username := loginUsername
		if username == "" {
			var err error
			if username, err = p.Line("Username: "); err != nil {
				return err
			}
		}
		password, err := p.Secret("Password: ")
		if err != nil {
			return err
		}

		result, err := commands.NewLoginCommand(GetState(), username, password).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var (
	registerEmail    string
	registerUsername string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(cmd)

		var err error
		email := registerEmail
		if email == "" {
			if email, err = p.Line("Email: "); err != nil {
				return err
			}
		}
		username := registerUsername
		if username == "" {
			if username, err = p.Line("Username: "); err != nil {
				return err
			}
		}
		password, err := p.Secret("Password: ")
		if err != nil {
			return err
		}
		repeat, err := p.Secret("Repeat password: ")
		if err != nil {
			return err
		}
		if password != repeat {
			return &application.ValidationError{Field: "password", Message: "passwords do not match"}
		}

		result, err := commands.NewRegisterCommand(GetState(), email, username, password).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		message, err := commands.NewLogoutCommand(GetState()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, message)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := GetState()
		if !state.Session.HasCredential() {
			return &application.AuthError{Message: "not logged in"}
		}

		profile, err := state.Session.LoadProfile(cmd.Context(), state.API)
		if err != nil {
			return err
		}

		printTitle(cmd, profile.Name())
		printField(cmd, "Username", profile.Username)
		printField(cmd, "Email", profile.Email)
		printField(cmd, "Bio", profile.Bio)
		if profile.IsLibraryPublic {
			printField(cmd, "Public library", state.PublicURL())
		} else {
			printField(cmd, "Public library", "off")
		}

		if exp, ok := application.CredentialExpiry(state.Session.Credential()); ok {
			printMuted(cmd, fmt.Sprintf("Session expires %s", exp.Local().Format(time.DateTime)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "account username")
}
