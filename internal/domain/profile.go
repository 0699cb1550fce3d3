package domain

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Profile is the signed-in user as the server last reported it
type Profile struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	IsLibraryPublic     bool      `json:"is_library_public"`
	ShowTagsPublic      bool      `json:"show_tags_public"`
	ShowNotesPublic     bool      `json:"show_notes_public"`
	ShowConditionPublic bool      `json:"show_condition_public"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
}

// UnmarshalJSON tolerates null optional fields
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                  int64   `json:"id"`
		Username            string  `json:"username"`
		Email               string  `json:"email"`
		DisplayName         *string `json:"display_name"`
		Bio                 *string `json:"bio"`
		AvatarURL           *string `json:"avatar_url"`
		IsLibraryPublic     bool    `json:"is_library_public"`
		ShowTagsPublic      bool    `json:"show_tags_public"`
		ShowNotesPublic     bool    `json:"show_notes_public"`
		ShowConditionPublic bool    `json:"show_condition_public"`
		CreatedAt           *string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Profile{
		ID:                  raw.ID,
		Username:            raw.Username,
		Email:               raw.Email,
		DisplayName:         deref(raw.DisplayName),
		Bio:                 deref(raw.Bio),
		AvatarURL:           deref(raw.AvatarURL),
		IsLibraryPublic:     raw.IsLibraryPublic,
		ShowTagsPublic:      raw.ShowTagsPublic,
		ShowNotesPublic:     raw.ShowNotesPublic,
		ShowConditionPublic: raw.ShowConditionPublic,
		CreatedAt:           parseTimestamp(deref(raw.CreatedAt)),
	}
	return nil
}

// Name returns the display name, falling back to the username
func (p Profile) Name() string {
	if strings.TrimSpace(p.DisplayName) != "" {
		return p.DisplayName
	}
	return p.Username
}

// PublicURL returns the address of the user's shared library page
func (p Profile) PublicURL(base string) string {
	return strings.TrimRight(base, "/") + "/library/" + url.PathEscape(p.Username)
}

// ProfileUpdate is a partial update of the profile. Nil fields are not sent.
type ProfileUpdate struct {
	DisplayName         *string `json:"display_name,omitempty"`
	Bio                 *string `json:"bio,omitempty"`
	AvatarURL           *string `json:"avatar_url,omitempty"`
	IsLibraryPublic     *bool   `json:"is_library_public,omitempty"`
	ShowTagsPublic      *bool   `json:"show_tags_public,omitempty"`
	ShowNotesPublic     *bool   `json:"show_notes_public,omitempty"`
	ShowConditionPublic *bool   `json:"show_condition_public,omitempty"`
}

// Registration is the payload for creating an account
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
