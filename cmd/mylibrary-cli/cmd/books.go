package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
	"mylibrary/internal/textclean"
)

var (
	booksSearch   string
	booksLocation string
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the books in your library",
	Long: `List the books in your library, pinned books first.

Examples:
  mylibrary-cli books
  mylibrary-cli books --search tolkien
  mylibrary-cli books --location "Living room"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := GetState()
		if _, err := state.Catalog.Refresh(cmd.Context()); err != nil {
			return err
		}

		locationID, err := resolveLocation(state, booksLocation)
		if err != nil {
			return err
		}
		filter := domain.Filter{Search: booksSearch, LocationID: locationID}
		books := state.Catalog.Filter(filter)

		if len(books) == 0 {
			if filter.IsZero() {
				printMuted(cmd, "No books in your library yet.")
			} else {
				printMuted(cmd, "No books match the filters.")
			}
			return nil
		}

		for _, b := range books {
			fmt.Fprintln(cmd.OutOrStdout(), bookLine(state, b))
		}
		printMuted(cmd, fmt.Sprintf("%d of %d books", len(books), len(state.Catalog.Books())))
		return nil
	},
}

var addFlags struct {
	title     string
	isbn      string
	authors   string
	tags      string
	location  string
	condition string
	notes     string
	cover     string
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book",
	Long: `Add a book to your library. With --isbn and no --title the
title, authors and cover are looked up first.

Examples:
  mylibrary-cli add --isbn 9780261103344
  mylibrary-cli add --title "Dune" --authors "Frank Herbert" --tags scifi,classic --condition good`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := GetState()
		ctx := cmd.Context()

		input := commands.BookInput{
			ISBN:      addFlags.isbn,
			Title:     addFlags.title,
			Authors:   addFlags.authors,
			CoverURL:  addFlags.cover,
			Condition: domain.Condition(addFlags.condition),
			Tags:      addFlags.tags,
			Notes:     addFlags.notes,
		}

		if addFlags.location != "" {
			if _, err := state.Catalog.Refresh(ctx); err != nil {
				return err
			}
			id, err := resolveLocation(state, addFlags.location)
			if err != nil {
				return err
			}
			input.LocationID = id
		}

		if strings.TrimSpace(input.ISBN) != "" && strings.TrimSpace(input.Title) == "" {
			meta, err := commands.NewLookupISBNCommand(state, input.ISBN).Execute(ctx)
			if commands.IsLookupMiss(err) {
				return &application.ValidationError{
					Field:   "isbn",
					Message: fmt.Sprintf("no book found for ISBN %s, pass --title to add it by hand", strings.TrimSpace(input.ISBN)),
				}
			}
			if err != nil {
				return err
			}
			input.ApplyMetadata(*meta)
		}

		result, err := commands.NewSaveBookCommand(state, 0, input).Execute(ctx)
		if err != nil {
			return err
		}
		if result.Book != nil {
			printSuccess(cmd, fmt.Sprintf("%s (id %d)", result.Message, result.Book.ID))
		} else {
			printSuccess(cmd, result.Message)
		}
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <book-id>",
	Short: "Pin or unpin a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("book_id", args[0])
		if err != nil {
			return err
		}
		state := GetState()
		if _, err := state.Catalog.Refresh(cmd.Context()); err != nil {
			return err
		}

		result, err := commands.NewTogglePinCommand(state, id).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <book-id>",
	Short: "Delete a book",
	Long: `Delete a book. You are asked to confirm unless --yes is given.

Examples:
  mylibrary-cli delete 42
  mylibrary-cli delete 42 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("book_id", args[0])
		if err != nil {
			return err
		}
		state := GetState()
		if _, err := state.Catalog.Refresh(cmd.Context()); err != nil {
			return err
		}

		if !deleteYes {
			label := fmt.Sprintf("book %d", id)
			if b, ok := state.Catalog.Book(id); ok {
				label = fmt.Sprintf("%q", b.Title)
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

		result, err := commands.NewDeleteBookCommand(state, id).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <isbn>",
	Short: "Look up book data for an ISBN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := commands.NewLookupISBNCommand(GetState(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		printTitle(cmd, meta.Title)
		printField(cmd, "ISBN", meta.ISBN)
		printField(cmd, "Authors", strings.Join(meta.Authors, ", "))
		printField(cmd, "Publisher", meta.Publisher)
		if meta.PublishedYear > 0 {
			printField(cmd, "Published", fmt.Sprint(meta.PublishedYear))
		}
		if meta.PageCount > 0 {
			printField(cmd, "Pages", fmt.Sprint(meta.PageCount))
		}
		printField(cmd, "Cover", meta.CoverURL)
		printField(cmd, "Description", textclean.Plain(meta.Description))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(booksCmd, addCmd, pinCmd, deleteCmd, lookupCmd)

	booksCmd.Flags().StringVarP(&booksSearch, "search", "s", "", "match title, authors or ISBN")
	booksCmd.Flags().StringVarP(&booksLocation, "location", "l", "", "location name or ID")

	addCmd.Flags().StringVar(&addFlags.title, "title", "", "book title")
	addCmd.Flags().StringVar(&addFlags.isbn, "isbn", "", "ISBN-10 or ISBN-13")
	addCmd.Flags().StringVar(&addFlags.authors, "authors", "", "comma-separated authors")
	addCmd.Flags().StringVar(&addFlags.tags, "tags", "", "comma-separated tags")
	addCmd.Flags().StringVar(&addFlags.location, "location", "", "location name or ID")
	addCmd.Flags().StringVar(&addFlags.condition, "condition", "", "new, very_good, good or acceptable")
	addCmd.Flags().StringVar(&addFlags.notes, "notes", "", "free-form notes")
	addCmd.Flags().StringVar(&addFlags.cover, "cover", "", "cover image URL")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation")
}
