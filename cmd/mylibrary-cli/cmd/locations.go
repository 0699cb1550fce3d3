package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/textclean"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List, add and delete shelving locations",
	Long: `List your shelving locations with their book counts.

Examples:
  mylibrary-cli locations
  mylibrary-cli locations add "Living room" --description "Tall bookcase"
  mylibrary-cli locations delete 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := GetState().Catalog.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		if len(snap.Locations) == 0 {
			printMuted(cmd, "No locations yet.")
			return nil
		}

		counts := make(map[int64]int)
		for _, b := range snap.Books {
			counts[b.LocationID]++
		}
		for _, l := range snap.Locations {
			line := fmt.Sprintf("%s  %-30s %s",
				styles.MutedText.Render(fmt.Sprintf("%5d", l.ID)),
				textclean.Line(l.Name),
				styles.MutedText.Render(fmt.Sprintf("%d books", counts[l.ID])),
			)
			if l.Description != "" {
				line += "  " + textclean.Line(l.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var locationDescription string

var locationsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewCreateLocationCommand(GetState(), args[0], locationDescription).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, fmt.Sprintf("%s (id %d)", result.Message, result.Location.ID))
		return nil
	},
}

var locationDeleteYes bool

var locationsDeleteCmd = &cobra.Command{
	Use:   "delete <location-id>",
	Short: "Delete a location. Its books stay in the library.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("location_id", args[0])
		if err != nil {
			return err
		}
		state := GetState()
		if _, err := state.Catalog.Refresh(cmd.Context()); err != nil {
			return err
		}

		if !locationDeleteYes {
			label := fmt.Sprintf("location %d", id)
			if l, ok := state.Catalog.Location(id); ok {
				label = fmt.Sprintf("%q", textclean.Line(l.Name))
			}
			ok, err := newPrompter(cmd).Confirm("Delete " + label + "?")
			if err != nil {
				return err
			}
			if !ok {
				printMuted(cmd, "Cancelled")
				return nil
			}
		}

		result, err := commands.NewDeleteLocationCommand(state, id).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locationsCmd.AddCommand(locationsAddCmd, locationsDeleteCmd)

	locationsAddCmd.Flags().StringVarP(&locationDescription, "description", "d", "", "optional description")
	locationsDeleteCmd.Flags().BoolVarP(&locationDeleteYes, "yes", "y", false, "skip the confirmation")
}
