package domain

import (
	"testing"
)

func sampleBooks() []Book {
	return []Book{
		{ID: 1, Title: "The Hobbit", Authors: Authors{"J.R.R. Tolkien"}, ISBN: "9780261103344", LocationID: 1, IsPinned: true},
		{ID: 2, Title: "Invisible Cities", Authors: Authors{"Italo Calvino"}, ISBN: "9780156453806", LocationID: 2},
		{ID: 3, Title: "Good Omens", Authors: Authors{"Terry Pratchett", "Neil Gaiman"}, LocationID: 1},
		{ID: 4, Title: "Dune", Authors: Authors{"Frank Herbert"}},
	}
}

func ids(books []Book) []int64 {
	out := make([]int64, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterBooks(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "empty filter returns all in order", filter: Filter{}, want: []int64{1, 2, 3, 4}},
		{name: "whitespace search is empty", filter: Filter{Search: "   "}, want: []int64{1, 2, 3, 4}},
		{name: "title case-insensitive", filter: Filter{Search: "hOBBit"}, want: []int64{1}},
		{name: "matches second author", filter: Filter{Search: "gaiman"}, want: []int64{3}},
		{name: "matches joined authors", filter: Filter{Search: "pratchett, neil"}, want: []int64{3}},
		{name: "isbn substring", filter: Filter{Search: "0156"}, want: []int64{2}},
		{name: "no match", filter: Filter{Search: "zzz"}, want: []int64{}},
		{name: "location only", filter: Filter{LocationID: 1}, want: []int64{1, 3}},
		{name: "location and search intersect", filter: Filter{Search: "o", LocationID: 2}, want: []int64{2}},
		{name: "location excludes matching title", filter: Filter{Search: "dune", LocationID: 1}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterBooks(sampleBooks(), tt.filter))
			if !equalIDs(got, tt.want) {
				t.Errorf("FilterBooks(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestFilterBooks_DoesNotMutateInput(t *testing.T) {
	books := sampleBooks()
	_ = FilterBooks(books, Filter{Search: "dune"})

	if !equalIDs(ids(books), []int64{1, 2, 3, 4}) {
		t.Errorf("input was modified: %v", ids(books))
	}
}
