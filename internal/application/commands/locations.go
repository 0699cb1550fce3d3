package commands

import (
	"context"
	"fmt"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// LocationResult contains the result of a location mutation
type LocationResult struct {
	Location *domain.Location
	Message  string
}

// CreateLocationCommand adds a shelving location
type CreateLocationCommand struct {
	state *application.State
	Draft domain.LocationDraft
}

// NewCreateLocationCommand creates a new CreateLocationCommand
func NewCreateLocationCommand(state *application.State, name, description string) *CreateLocationCommand {
	return &CreateLocationCommand{
		state: state,
		Draft: domain.LocationDraft{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(description),
		},
	}
}

// Validate checks the location has a name
func (c *CreateLocationCommand) Validate() error {
	return application.ValidateRequired("name", c.Draft.Name)
}

// Execute creates the location
func (c *CreateLocationCommand) Execute(ctx context.Context) (*LocationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var loc *domain.Location
	err := c.state.Run(application.WorkflowCreateLocation, func() error {
		var err error
		loc, err = c.state.API.CreateLocation(ctx, c.Draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, &application.RequestError{Message: "server returned no location"}
	}

	return &LocationResult{
		Location: loc,
		Message:  fmt.Sprintf("Added location %q", loc.Name),
	}, nil
}

// DeleteLocationCommand removes a location. Books keep existing without one.
type DeleteLocationCommand struct {
	state      *application.State
	LocationID int64
}

// NewDeleteLocationCommand creates a new DeleteLocationCommand
func NewDeleteLocationCommand(state *application.State, id int64) *DeleteLocationCommand {
	return &DeleteLocationCommand{state: state, LocationID: id}
}

// Validate checks a location was chosen
func (c *DeleteLocationCommand) Validate() error {
	return application.ValidateID("location_id", c.LocationID)
}

// Execute runs the delete
func (c *DeleteLocationCommand) Execute(ctx context.Context) (*LocationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("location %d", c.LocationID)
	if l, ok := c.state.Catalog.Location(c.LocationID); ok {
		name = fmt.Sprintf("location %q", l.Name)
	}

	err := c.state.Run(application.WorkflowDeleteLocation, func() error {
		return c.state.API.DeleteLocation(ctx, c.LocationID)
	})
	if err != nil {
		return nil, err
	}
	return &LocationResult{Message: "Deleted " + name}, nil
}
