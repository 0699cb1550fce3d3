package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application"
	"mylibrary/internal/bootstrap"
	"mylibrary/internal/config"
)

var (
	apiURL string
	rt     *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "mylibrary-cli",
	Short: "Command-line client for your MyLibrary catalog",
	Long: `mylibrary-cli manages a MyLibrary book catalog from the shell.

It shares the session of the mylibrary TUI: log in once with either and
both stay signed in until you log out or the session expires.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if apiURL != "" {
			if err := cfg.SetAPIURL(apiURL); err != nil {
				return err
			}
		}

		rt, err = bootstrap.Open(cfg, newNotifier(cmd.ErrOrStderr()))
		return err
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	closeRuntime()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "base URL of the library API (default $MYLIBRARY_API_URL)")
}

// GetState returns the initialized application state
func GetState() *application.State {
	return rt.State
}

// GetConfig returns the loaded configuration
func GetConfig() config.Config {
	return rt.Config
}

func closeRuntime() {
	if rt != nil {
		rt.Close()
		rt = nil
	}
}

// reportError prints err unless the API client already reported it
func reportError(w io.Writer, err error) {
	switch {
	case application.IsAuthError(err):
		fmt.Fprintln(w, styles.MutedText.Render("Run `mylibrary-cli login` to sign in."))
	case errors.Is(err, application.ErrRequestFailed),
		errors.Is(err, application.ErrLookupMiss),
		errors.Is(err, application.ErrBusy):
	default:
		fmt.Fprintln(w, styles.ErrorMsg.Render("Error:")+" "+err.Error())
	}
}
