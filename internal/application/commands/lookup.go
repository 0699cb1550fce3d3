package commands

import (
	"context"
	"errors"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// LookupISBNCommand resolves book metadata for an ISBN
type LookupISBNCommand struct {
	state *application.State
	ISBN  string
}

// NewLookupISBNCommand creates a new LookupISBNCommand
func NewLookupISBNCommand(state *application.State, isbn string) *LookupISBNCommand {
	return &LookupISBNCommand{state: state, ISBN: application.NormalizeISBN(isbn)}
}

// Validate checks an ISBN was entered
func (c *LookupISBNCommand) Validate() error {
	return application.ValidateRequired("isbn", c.ISBN)
}

// Execute calls the resolver. A miss is returned as *application.LookupMiss
// and is not fatal for the caller's form.
func (c *LookupISBNCommand) Execute(ctx context.Context) (*domain.ISBNMetadata, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var meta *domain.ISBNMetadata
	err := c.state.Run(application.WorkflowLookup, func() error {
		var err error
		meta, err = c.state.API.LookupISBN(ctx, c.ISBN)
		return err
	})
	if err != nil {
		return nil, err
	}
	if meta == nil || (meta.Title == "" && len(meta.Authors) == 0) {
		return nil, &application.LookupMiss{ISBN: c.ISBN}
	}
	if meta.ISBN == "" {
		meta.ISBN = c.ISBN
	}
	return meta, nil
}

// IsLookupMiss reports whether err is a non-fatal resolver miss
func IsLookupMiss(err error) bool {
	return errors.Is(err, application.ErrLookupMiss)
}
