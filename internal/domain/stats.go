package domain

// AuthorCount is one row of the per-author breakdown
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// TagCount is one row of the per-tag breakdown
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// LocationCount is one row of the per-location breakdown
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Stats is a read-only aggregate computed by the server
type Stats struct {
	TotalBooks      int             `json:"total_books"`
	BooksByAuthor   []AuthorCount   `json:"books_by_author"`
	BooksByTag      []TagCount      `json:"books_by_tag"`
	BooksByLocation []LocationCount `json:"books_by_location"`
	PinnedBooks     []Book          `json:"pinned_books"`
	RecentAdditions []Book          `json:"recent_additions"`
}

// ImportResult is the tally returned by a bulk CSV import
type ImportResult struct {
	Total      int      `json:"total"`
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// HasErrors reports whether any row failed with a message
func (r ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}
