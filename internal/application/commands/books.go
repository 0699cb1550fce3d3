package commands

import (
	"context"
	"fmt"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// BookInput is the raw content of the book form
type BookInput struct {
	ISBN       string
	Title      string
	Authors    string // comma-separated
	CoverURL   string
	LocationID int64
	Condition  domain.Condition
	Tags       string // comma-separated
	Notes      string

	// Carried over from an ISBN lookup
	Publisher     string
	PublishedYear int
	PageCount     int
	Description   string

	// The lists stored on the book being edited. Names may contain commas,
	// so they are only re-sent when the text was changed.
	StoredAuthors []string
	StoredTags    []string
}

// InputFromBook fills the form from an existing book
func InputFromBook(b domain.Book) BookInput {
	return BookInput{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Authors:       b.Authors.Joined(),
		CoverURL:      b.CoverURL,
		LocationID:    b.LocationID,
		Condition:     b.Condition,
		Tags:          strings.Join(b.TagNames(), ", "),
		Notes:         b.Notes,
		Publisher:     b.Publisher,
		PublishedYear: b.PublishedYear,
		PageCount:     b.PageCount,
		Description:   b.Description,
		StoredAuthors: append([]string(nil), b.Authors...),
		StoredTags:    b.TagNames(),
	}
}

// ApplyMetadata pre-fills the form from a lookup. Only title, authors and
// cover are visible fields; the rest ride along with the submission.
func (in *BookInput) ApplyMetadata(meta domain.ISBNMetadata) {
	if meta.ISBN != "" {
		in.ISBN = meta.ISBN
	}
	if meta.Title != "" {
		in.Title = meta.Title
	}
	if len(meta.Authors) > 0 {
		in.Authors = strings.Join(meta.Authors, ", ")
	}
	if meta.CoverURL != "" {
		in.CoverURL = meta.CoverURL
	}
	in.Publisher = meta.Publisher
	in.PublishedYear = meta.PublishedYear
	in.PageCount = meta.PageCount
	in.Description = meta.Description
}

// Patch converts the form into the edit payload. Authors and tags are left
// out when their text still reads as the stored list.
func (in BookInput) Patch() domain.BookPatch {
	patch := domain.PatchFromDraft(in.Draft())
	if sameListText(in.Authors, in.StoredAuthors) {
		patch.Authors = nil
	}
	if sameListText(in.Tags, in.StoredTags) {
		patch.TagNames = nil
	}
	return patch
}

func sameListText(text string, stored []string) bool {
	if stored == nil {
		return false
	}
	return strings.TrimSpace(text) == strings.Join(stored, ", ")
}

// Draft converts the form into the create payload
func (in BookInput) Draft() domain.BookDraft {
	return domain.BookDraft{
		Title:         strings.TrimSpace(in.Title),
		Authors:       domain.SplitList(in.Authors),
		ISBN:          application.NormalizeISBN(in.ISBN),
		CoverURL:      strings.TrimSpace(in.CoverURL),
		Publisher:     strings.TrimSpace(in.Publisher),
		PublishedYear: in.PublishedYear,
		PageCount:     in.PageCount,
		Description:   strings.TrimSpace(in.Description),
		LocationID:    in.LocationID,
		Condition:     in.Condition,
		Notes:         strings.TrimSpace(in.Notes),
		TagNames:      domain.SplitList(in.Tags),
	}
}

// SaveBookResult contains the result of creating or editing a book
type SaveBookResult struct {
	Book    *domain.Book
	Created bool
	Message string
}

// SaveBookCommand creates a book, or edits one when BookID is set
type SaveBookCommand struct {
	state  *application.State
	BookID int64
	Input  BookInput
}

// NewSaveBookCommand creates a new SaveBookCommand
func NewSaveBookCommand(state *application.State, bookID int64, input BookInput) *SaveBookCommand {
	return &SaveBookCommand{state: state, BookID: bookID, Input: input}
}

// Validate checks the form before anything is sent
func (c *SaveBookCommand) Validate() error {
	if err := application.ValidateRequired("title", c.Input.Title); err != nil {
		return err
	}
	if isbn := strings.TrimSpace(c.Input.ISBN); isbn != "" {
		if err := application.ValidateISBN("isbn", isbn); err != nil {
			return err
		}
	}
	if _, err := domain.ParseCondition(string(c.Input.Condition)); err != nil {
		return &application.ValidationError{Field: "condition", Message: err.Error()}
	}
	return application.ValidateOptionalURL("cover_url", c.Input.CoverURL)
}

// Execute sends the book. The caller refreshes the catalog afterwards.
func (c *SaveBookCommand) Execute(ctx context.Context) (*SaveBookResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &SaveBookResult{Created: c.BookID == 0}
	err := c.state.Run(application.WorkflowSaveBook, func() error {
		var err error
		if c.BookID == 0 {
			result.Book, err = c.state.API.CreateBook(ctx, c.Input.Draft())
		} else {
			result.Book, err = c.state.API.UpdateBook(ctx, c.BookID, c.Input.Patch())
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Created {
		result.Message = fmt.Sprintf("Added %q", strings.TrimSpace(c.Input.Title))
	} else {
		result.Message = fmt.Sprintf("Updated %q", strings.TrimSpace(c.Input.Title))
	}
	return result, nil
}

// BookResult contains the result of a single-book mutation
type BookResult struct {
	BookID  int64
	Message string
}

// TogglePinCommand flips the pinned flag of a cached book
type TogglePinCommand struct {
	state  *application.State
	BookID int64
}

// NewTogglePinCommand creates a new TogglePinCommand
func NewTogglePinCommand(state *application.State, bookID int64) *TogglePinCommand {
	return &TogglePinCommand{state: state, BookID: bookID}
}

// Validate checks the target exists in the cache
func (c *TogglePinCommand) Validate() error {
	if err := application.ValidateID("book_id", c.BookID); err != nil {
		return err
	}
	if _, ok := c.state.Catalog.Book(c.BookID); !ok {
		return &application.ValidationError{Field: "book_id", Message: fmt.Sprintf("book %d is not in the library", c.BookID)}
	}
	return nil
}

// Execute sends only the inverted is_pinned field
func (c *TogglePinCommand) Execute(ctx context.Context) (*BookResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	book, _ := c.state.Catalog.Book(c.BookID)
	pinned := !book.IsPinned

	result := &BookResult{BookID: c.BookID}
	err := c.state.Run(application.WorkflowTogglePin, func() error {
		_, err := c.state.API.UpdateBook(ctx, c.BookID, domain.BookPatch{IsPinned: &pinned})
		return err
	})
	if err != nil {
		return nil, err
	}

	if pinned {
		result.Message = fmt.Sprintf("Pinned %q", book.Title)
	} else {
		result.Message = fmt.Sprintf("Unpinned %q", book.Title)
	}
	return result, nil
}

// DeleteBookCommand removes a book. Confirmation is the caller's job.
type DeleteBookCommand struct {
	state  *application.State
	BookID int64
}

// NewDeleteBookCommand creates a new DeleteBookCommand
func NewDeleteBookCommand(state *application.State, bookID int64) *DeleteBookCommand {
	return &DeleteBookCommand{state: state, BookID: bookID}
}

// Validate checks if the delete operation is valid
func (c *DeleteBookCommand) Validate() error {
	return application.ValidateID("book_id", c.BookID)
}

// Execute runs the delete command
func (c *DeleteBookCommand) Execute(ctx context.Context) (*BookResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("book %d", c.BookID)
	if b, ok := c.state.Catalog.Book(c.BookID); ok {
		title = fmt.Sprintf("%q", b.Title)
	}

	result := &BookResult{BookID: c.BookID}
	err := c.state.Run(application.WorkflowDeleteBook, func() error {
		return c.state.API.DeleteBook(ctx, c.BookID)
	})
	if err != nil {
		return nil, err
	}

	result.Message = "Deleted " + title
	return result, nil
}
