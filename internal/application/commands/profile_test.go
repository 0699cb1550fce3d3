package commands

import (
	"context"
	"errors"
	"testing"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

func TestSetSharingCommand(t *testing.T) {
	f := newFixture(t, true)

	result, err := NewSetSharingCommand(f.state, true).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Profile.IsLibraryPublic || !f.state.Session.Profile().IsLibraryPublic {
		t.Errorf("sharing not enabled: %+v", result.Profile)
	}
	if got := f.state.PublicURL(); got != "https://books.example.org/library/ada" {
		t.Errorf("PublicURL() = %q", got)
	}

	if _, err := NewSetSharingCommand(f.state, false).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if f.state.Session.Profile().IsLibraryPublic {
		t.Errorf("sharing not disabled")
	}
}

func TestUpdateProfileCommand(t *testing.T) {
	f := newFixture(t, true)
	name := "  Ada Lovelace "
	show := true

	_, err := NewUpdateProfileCommand(f.state, domain.ProfileUpdate{DisplayName: &name, ShowNotesPublic: &show}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	p := f.state.Session.Profile()
	if p.DisplayName != "Ada Lovelace" || !p.ShowNotesPublic || p.ShowTagsPublic {
		t.Errorf("profile = %+v", p)
	}
}

func TestUpdateProfileCommand_Validate(t *testing.T) {
	bad := "javascript:alert(1)"
	tests := []struct {
		name   string
		update domain.ProfileUpdate
	}{
		{name: "empty update", update: domain.ProfileUpdate{}},
		{name: "bad avatar", update: domain.ProfileUpdate{AvatarURL: &bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUpdateProfileCommand(nil, tt.update).Validate()
			var valErr *application.ValidationError
			if !errors.As(err, &valErr) {
				t.Errorf("Validate() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestStatsCommand(t *testing.T) {
	f := newFixture(t, true)
	f.api.SeedBook("ada", domain.Book{Title: "A", Authors: domain.Authors{"X"}, IsPinned: true})
	f.api.SeedBook("ada", domain.Book{Title: "B", Authors: domain.Authors{"X", "Y"}})

	stats, err := NewStatsCommand(f.state).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stats.TotalBooks != 2 || len(stats.PinnedBooks) != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.BooksByAuthor) == 0 || stats.BooksByAuthor[0].Author != "X" || stats.BooksByAuthor[0].Count != 2 {
		t.Errorf("books by author = %+v", stats.BooksByAuthor)
	}
}
