package commands

import (
	"context"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// ProfileResult contains the profile after an update
type ProfileResult struct {
	Profile *domain.Profile
	Message string
}

// UpdateProfileCommand partially updates the profile and sharing flags
type UpdateProfileCommand struct {
	state  *application.State
	Update domain.ProfileUpdate
}

// NewUpdateProfileCommand creates a new UpdateProfileCommand
func NewUpdateProfileCommand(state *application.State, update domain.ProfileUpdate) *UpdateProfileCommand {
	return &UpdateProfileCommand{state: state, Update: update}
}

// NewSetSharingCommand turns the public library on or off
func NewSetSharingCommand(state *application.State, public bool) *UpdateProfileCommand {
	return NewUpdateProfileCommand(state, domain.ProfileUpdate{IsLibraryPublic: &public})
}

// Validate checks the fields that carry a format
func (c *UpdateProfileCommand) Validate() error {
	if c.Update.AvatarURL != nil {
		if err := application.ValidateOptionalURL("avatar_url", *c.Update.AvatarURL); err != nil {
			return err
		}
	}
	if c.Update == (domain.ProfileUpdate{}) {
		return &application.ValidationError{Field: "profile", Message: "nothing to update"}
	}
	return nil
}

// Execute sends the update and stores the server's answer in the session
func (c *UpdateProfileCommand) Execute(ctx context.Context) (*ProfileResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var profile *domain.Profile
	err := c.state.Run(application.WorkflowProfile, func() error {
		var err error
		profile, err = c.state.API.UpdateMe(ctx, trimProfileUpdate(c.Update))
		return err
	})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &application.RequestError{Message: "server returned no profile"}
	}

	c.state.Session.SetProfile(profile)
	return &ProfileResult{Profile: c.state.Session.Profile(), Message: "Settings saved"}, nil
}

func trimProfileUpdate(u domain.ProfileUpdate) domain.ProfileUpdate {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	u.DisplayName = trim(u.DisplayName)
	u.Bio = trim(u.Bio)
	u.AvatarURL = trim(u.AvatarURL)
	return u
}

// StatsCommand fetches a fresh statistics snapshot
type StatsCommand struct {
	state *application.State
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(state *application.State) *StatsCommand {
	return &StatsCommand{state: state}
}

// Execute fetches the statistics. Nothing is cached.
func (c *StatsCommand) Execute(ctx context.Context) (*domain.Stats, error) {
	stats, err := c.state.API.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &domain.Stats{}, nil
	}
	return stats, nil
}
