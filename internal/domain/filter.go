package domain

import "strings"

// Filter narrows the cached catalog. The zero value matches everything.
type Filter struct {
	Search     string
	LocationID int64
}

// IsZero reports whether the filter matches every book
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.LocationID == 0
}

// Matches reports whether a single book passes the filter
func (f Filter) Matches(b Book) bool {
	if f.LocationID != 0 && b.LocationID != f.LocationID {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Authors.Joined()), q) ||
		strings.Contains(strings.ToLower(b.ISBN), q)
}

// FilterBooks returns the books passing f in their original order.
// The input slice is not modified.
func FilterBooks(books []Book, f Filter) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
