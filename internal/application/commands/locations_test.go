package commands

import (
	"context"
	"errors"
	"testing"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

func TestCreateLocationCommand(t *testing.T) {
	f := newFixture(t, true)

	result, err := NewCreateLocationCommand(f.state, "  Study  ", "top shelf").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Location.Name != "Study" || result.Location.ID == 0 {
		t.Errorf("unexpected location: %+v", result.Location)
	}

	snap := f.refresh(t)
	if len(snap.Locations) != 1 || snap.Locations[0].Description != "top shelf" {
		t.Errorf("locations = %+v", snap.Locations)
	}

	_, err = NewCreateLocationCommand(f.state, "", "").Execute(context.Background())
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "name" {
		t.Errorf("empty name error = %v", err)
	}
}

func TestDeleteLocationCommand(t *testing.T) {
	f := newFixture(t, true)
	shelf := f.api.SeedLocation("ada", domain.Location{Name: "Attic"})
	f.api.SeedBook("ada", domain.Book{Title: "Boxed", LocationID: shelf.ID})
	f.refresh(t)

	result, err := NewDeleteLocationCommand(f.state, shelf.ID).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Message != `Deleted location "Attic"` {
		t.Errorf("Message = %q", result.Message)
	}

	snap := f.refresh(t)
	if len(snap.Locations) != 0 {
		t.Errorf("location still listed")
	}
	if snap.Books[0].HasLocation() {
		t.Errorf("book still references deleted location")
	}
}
