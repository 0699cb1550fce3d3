package commands

import (
	"context"
	"fmt"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// LoginResult contains the result of a login
type LoginResult struct {
	Profile *domain.Profile
	Message string
}

// LoginCommand exchanges a username and password for a session
type LoginCommand struct {
	state    *application.State
	Username string
	Password string
}

// NewLoginCommand creates a new LoginCommand
func NewLoginCommand(state *application.State, username, password string) *LoginCommand {
	return &LoginCommand{
		state:    state,
		Username: strings.TrimSpace(username),
		Password: password,
	}
}

// Validate checks that both credentials were supplied
func (c *LoginCommand) Validate() error {
	if err := application.ValidateRequired("username", c.Username); err != nil {
		return err
	}
	return application.ValidateRequired("password", c.Password)
}

// Execute logs in, persists the token and loads the profile
func (c *LoginCommand) Execute(ctx context.Context) (*LoginResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result *LoginResult
	err := c.state.Run(application.WorkflowLogin, func() error {
		token, err := c.state.API.Login(ctx, c.Username, c.Password)
		if err != nil {
			return err
		}
		if token == "" {
			return &application.RequestError{Message: "login response carried no token"}
		}
		if err := c.state.Session.SetCredential(token); err != nil {
			return err
		}

		profile, err := c.state.Session.LoadProfile(ctx, c.state.API)
		if err != nil {
			return err
		}
		result = &LoginResult{
			Profile: profile,
			Message: fmt.Sprintf("Welcome, %s", profile.Name()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterCommand creates an account and signs in with it
type RegisterCommand struct {
	state        *application.State
	Registration domain.Registration
}

// NewRegisterCommand creates a new RegisterCommand
func NewRegisterCommand(state *application.State, email, username, password string) *RegisterCommand {
	return &RegisterCommand{
		state: state,
		Registration: domain.Registration{
			Email:    strings.TrimSpace(email),
			Username: strings.TrimSpace(username),
			Password: password,
		},
	}
}

// Validate checks the registration form
func (c *RegisterCommand) Validate() error {
	if err := application.ValidateEmail("email", c.Registration.Email); err != nil {
		return err
	}
	if err := application.ValidateRequired("username", c.Registration.Username); err != nil {
		return err
	}
	return application.ValidateRequired("password", c.Registration.Password)
}

// Execute registers the account and then logs in
func (c *RegisterCommand) Execute(ctx context.Context) (*LoginResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.state.Run(application.WorkflowRegister, func() error {
		return c.state.API.Register(ctx, c.Registration)
	})
	if err != nil {
		return nil, err
	}

	login := NewLoginCommand(c.state, c.Registration.Username, c.Registration.Password)
	return login.Execute(ctx)
}

// LogoutCommand ends the session
type LogoutCommand struct {
	state *application.State
}

// NewLogoutCommand creates a new LogoutCommand
func NewLogoutCommand(state *application.State) *LogoutCommand {
	return &LogoutCommand{state: state}
}

// Execute clears the credential, profile and catalog
func (c *LogoutCommand) Execute(_ context.Context) (string, error) {
	if err := c.state.Session.Clear(); err != nil {
		return "", err
	}
	return "Logged out", nil
}
