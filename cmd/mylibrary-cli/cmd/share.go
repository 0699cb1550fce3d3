package cmd

import (
	"github.com/spf13/cobra"

	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
)

var shareFlags struct {
	tags      bool
	notes     bool
	condition bool
}

var shareCmd = &cobra.Command{
	Use:   "share on|off",
	Short: "Turn the public library page on or off",
	Long: `Turn the public library page on or off. The visibility flags are
only sent when given, so the others keep their current value.

Examples:
  mylibrary-cli share on
  mylibrary-cli share on --tags --notes=false
  mylibrary-cli share off`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		public := args[0] == "on"
		update := domain.ProfileUpdate{IsLibraryPublic: &public}

		flags := cmd.Flags()
		if flags.Changed("tags") {
			update.ShowTagsPublic = &shareFlags.tags
		}
		if flags.Changed("notes") {
			update.ShowNotesPublic = &shareFlags.notes
		}
		if flags.Changed("condition") {
			update.ShowConditionPublic = &shareFlags.condition
		}

		state := GetState()
		result, err := commands.NewUpdateProfileCommand(state, update).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		if result.Profile != nil && result.Profile.IsLibraryPublic {
			printField(cmd, "Public link", state.PublicURL())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().BoolVar(&shareFlags.tags, "tags", false, "show tags on the public page")
	shareCmd.Flags().BoolVar(&shareFlags.notes, "notes", false, "show notes on the public page")
	shareCmd.Flags().BoolVar(&shareFlags.condition, "condition", false, "show condition on the public page")
}
