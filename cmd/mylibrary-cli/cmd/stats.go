package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application/commands"
)

const (
	topAuthors    = 10
	topTags       = 10
	recentListed  = 5
	statsNameCols = 32
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := commands.NewStatsCommand(GetState()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		printField(cmd, "Total books", fmt.Sprint(s.TotalBooks))
		printField(cmd, "Pinned", fmt.Sprint(len(s.PinnedBooks)))

		section := func(title string) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, styles.Section.Render(title))
		}
		row := func(name string, count int) {
			fmt.Fprintf(out, "  %-*s %d\n", statsNameCols, name, count)
		}

		section("Top authors")
		for i, a := range s.BooksByAuthor {
			if i == topAuthors {
				break
			}
			row(a.Author, a.Count)
		}

		section("Top tags")
		for i, t := range s.BooksByTag {
			if i == topTags {
				break
			}
			row(t.Tag, t.Count)
		}

		section("By location")
		for _, l := range s.BooksByLocation {
			row(l.Location, l.Count)
		}

		section("Recently added")
		for i, b := range s.RecentAdditions {
			if i == recentListed {
				break
			}
			fmt.Fprintf(out, "  %s  %s\n", styles.MutedText.Render(b.CreatedAt.Format("2006-01-02")), b.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
