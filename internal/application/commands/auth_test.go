package commands

import (
	"context"
	"errors"
	"testing"

	"mylibrary/internal/application"
)

func TestLoginCommand_Validate(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
		errField string
	}{
		{name: "valid", username: "ada", password: "secret", wantErr: false},
		{name: "missing username", username: "  ", password: "secret", wantErr: true, errField: "username"},
		{name: "missing password", username: "ada", password: "", wantErr: true, errField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLoginCommand(nil, tt.username, tt.password).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) || valErr.Field != tt.errField {
					t.Errorf("expected ValidationError on %s, got %v", tt.errField, err)
				}
			}
		})
	}
}

func TestLoginCommand_Execute(t *testing.T) {
	f := newFixture(t, false)

	result, err := NewLoginCommand(f.state, "ada", "secret").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Profile.Username != "ada" {
		t.Errorf("profile username = %q, want ada", result.Profile.Username)
	}
	if !f.state.Session.HasCredential() {
		t.Errorf("credential not stored after login")
	}
	if f.state.Session.Profile() == nil {
		t.Errorf("profile not cached after login")
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	f := newFixture(t, false)

	_, err := NewLoginCommand(f.state, "ada", "nope").Execute(context.Background())
	if !application.IsAuthError(err) {
		t.Fatalf("Execute() error = %v, want AuthError", err)
	}
	if f.state.Session.HasCredential() {
		t.Errorf("no credential should be stored")
	}
	if !f.notes.contains("Incorrect username or password") {
		t.Errorf("server reason not surfaced: %v", f.notes.msgs)
	}
}

func TestRegisterCommand_LogsIn(t *testing.T) {
	f := newFixture(t, false)

	result, err := NewRegisterCommand(f.state, "grace@example.org", "grace", "hopper").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Profile.Username != "grace" {
		t.Errorf("profile = %+v, want grace", result.Profile)
	}

	_, err = NewRegisterCommand(f.state, "ada2@example.org", "ada", "x").Execute(context.Background())
	if !errors.Is(err, application.ErrRequestFailed) {
		t.Errorf("duplicate username error = %v, want RequestError", err)
	}
}

func TestRegisterCommand_Validate(t *testing.T) {
	err := NewRegisterCommand(nil, "not-an-email", "grace", "pw").Validate()
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "email" {
		t.Errorf("Validate() error = %v, want email ValidationError", err)
	}
}

func TestLogoutCommand(t *testing.T) {
	f := newFixture(t, true)
	f.refresh(t)

	if _, err := NewLogoutCommand(f.state).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if f.state.Session.HasCredential() || f.state.Session.Profile() != nil {
		t.Errorf("session not cleared")
	}
	if f.state.Catalog.Loaded() {
		t.Errorf("catalog not reset on logout")
	}
}

func TestServerSideInvalidation(t *testing.T) {
	f := newFixture(t, true)
	f.api.RevokeTokens()

	_, err := f.state.Catalog.Refresh(context.Background())
	if !application.IsAuthError(err) {
		t.Fatalf("Refresh() error = %v, want AuthError", err)
	}
	if f.state.Session.HasCredential() || f.state.Session.Profile() != nil {
		t.Errorf("401 must clear credential and profile")
	}
}
