package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Condition is the physical state of a copy
type Condition string

const (
	ConditionNone       Condition = ""
	ConditionNew        Condition = "new"
	ConditionVeryGood   Condition = "very_good"
	ConditionGood       Condition = "good"
	ConditionAcceptable Condition = "acceptable"
)

// Conditions lists the selectable conditions in display order
var Conditions = []Condition{
	ConditionNone,
	ConditionNew,
	ConditionVeryGood,
	ConditionGood,
	ConditionAcceptable,
}

// ParseCondition validates a condition string. The empty string is accepted
// and means "not set".
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Conditions {
		if c == known {
			return c, nil
		}
	}
	return ConditionNone, fmt.Errorf("unknown condition %q", s)
}

// Label returns the human-readable condition
func (c Condition) Label() string {
	switch c {
	case ConditionNew:
		return "New"
	case ConditionVeryGood:
		return "Very good"
	case ConditionGood:
		return "Good"
	case ConditionAcceptable:
		return "Acceptable"
	default:
		return "Not set"
	}
}

// Tag is a label attached to books. The server resolves tags by name.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is a catalog entry owned by the signed-in user
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Authors       Authors   `json:"authors"`
	ISBN          string    `json:"isbn,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	PageCount     int       `json:"page_count,omitempty"`
	Description   string    `json:"description,omitempty"`
	LocationID    int64     `json:"location_id,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Condition     Condition `json:"condition,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Tags          []Tag     `json:"tags"`
	IsPinned      bool      `json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// UnmarshalJSON tolerates null for optional scalar fields
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            int64     `json:"id"`
		Title         string    `json:"title"`
		Authors       Authors   `json:"authors"`
		ISBN          *string   `json:"isbn"`
		CoverURL      *string   `json:"cover_url"`
		Publisher     *string   `json:"publisher"`
		PublishedYear *int      `json:"published_year"`
		PageCount     *int      `json:"page_count"`
		Description   *string   `json:"description"`
		LocationID    *int64    `json:"location_id"`
		Location      *Location `json:"location"`
		Condition     *string   `json:"condition"`
		Notes         *string   `json:"notes"`
		Tags          []Tag     `json:"tags"`
		IsPinned      bool      `json:"is_pinned"`
		CreatedAt     *string   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Book{
		ID:            raw.ID,
		Title:         raw.Title,
		Authors:       raw.Authors,
		ISBN:          deref(raw.ISBN),
		CoverURL:      deref(raw.CoverURL),
		Publisher:     deref(raw.Publisher),
		PublishedYear: derefInt(raw.PublishedYear),
		PageCount:     derefInt(raw.PageCount),
		Description:   deref(raw.Description),
		Location:      raw.Location,
		Condition:     Condition(deref(raw.Condition)),
		Notes:         deref(raw.Notes),
		Tags:          raw.Tags,
		IsPinned:      raw.IsPinned,
		CreatedAt:     parseTimestamp(deref(raw.CreatedAt)),
	}
	if raw.LocationID != nil {
		b.LocationID = *raw.LocationID
	}
	return nil
}

// TagNames returns the names of the book's tags in order
func (b Book) TagNames() []string {
	names := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		names = append(names, t.Name)
	}
	return names
}

// HasLocation reports whether the book is shelved somewhere
func (b Book) HasLocation() bool {
	return b.LocationID != 0
}

// BookDraft is the payload for creating a book
type BookDraft struct {
	Title         string
	Authors       []string
	ISBN          string
	CoverURL      string
	Publisher     string
	PublishedYear int
	PageCount     int
	Description   string
	LocationID    int64
	Condition     Condition
	Notes         string
	TagNames      []string
}

// MarshalJSON encodes empty optional fields as null
func (d BookDraft) MarshalJSON() ([]byte, error) {
	tags := d.TagNames
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(map[string]any{
		"title":          d.Title,
		"authors":        Authors(d.Authors),
		"isbn":           nullString(d.ISBN),
		"cover_url":      nullString(d.CoverURL),
		"publisher":      nullString(d.Publisher),
		"published_year": nullInt(d.PublishedYear),
		"page_count":     nullInt(d.PageCount),
		"description":    nullString(d.Description),
		"location_id":    nullInt64(d.LocationID),
		"condition":      nullString(string(d.Condition)),
		"notes":          nullString(d.Notes),
		"tag_names":      tags,
	})
}

// BookPatch is a partial update. Nil fields are left alone; a pointer to a
// zero value clears the field on the server.
type BookPatch struct {
	Title         *string
	Authors       *[]string
	CoverURL      *string
	Publisher     *string
	PublishedYear *int
	PageCount     *int
	Description   *string
	LocationID    *int64
	Condition     *Condition
	Notes         *string
	TagNames      *[]string
	IsPinned      *bool
}

// PatchFromDraft builds a patch that sets every editable field from d
func PatchFromDraft(d BookDraft) BookPatch {
	authors := d.Authors
	tags := d.TagNames
	if tags == nil {
		tags = []string{}
	}
	return BookPatch{
		Title:         &d.Title,
		Authors:       &authors,
		CoverURL:      &d.CoverURL,
		Publisher:     &d.Publisher,
		PublishedYear: &d.PublishedYear,
		PageCount:     &d.PageCount,
		Description:   &d.Description,
		LocationID:    &d.LocationID,
		Condition:     &d.Condition,
		Notes:         &d.Notes,
		TagNames:      &tags,
	}
}

// MarshalJSON emits only the fields that are set
func (p BookPatch) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Authors != nil {
		m["authors"] = Authors(*p.Authors)
	}
	if p.CoverURL != nil {
		m["cover_url"] = nullString(*p.CoverURL)
	}
	if p.Publisher != nil {
		m["publisher"] = nullString(*p.Publisher)
	}
	if p.PublishedYear != nil {
		m["published_year"] = nullInt(*p.PublishedYear)
	}
	if p.PageCount != nil {
		m["page_count"] = nullInt(*p.PageCount)
	}
	if p.Description != nil {
		m["description"] = nullString(*p.Description)
	}
	if p.LocationID != nil {
		m["location_id"] = nullInt64(*p.LocationID)
	}
	if p.Condition != nil {
		m["condition"] = nullString(string(*p.Condition))
	}
	if p.Notes != nil {
		m["notes"] = nullString(*p.Notes)
	}
	if p.TagNames != nil {
		m["tag_names"] = *p.TagNames
	}
	if p.IsPinned != nil {
		m["is_pinned"] = *p.IsPinned
	}
	return json.Marshal(m)
}

// ISBNMetadata is what the metadata resolver knows about an ISBN
type ISBNMetadata struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	CoverURL      string   `json:"cover_url"`
	Publisher     string   `json:"publisher"`
	PublishedYear int      `json:"published_year"`
	PageCount     int      `json:"page_count"`
	Description   string   `json:"description"`
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// parseTimestamp accepts RFC 3339 and the naive ISO form the server emits
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
