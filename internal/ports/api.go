package ports

import (
	"context"
	"io"

	"mylibrary/internal/domain"
)

// AuthAPI exchanges credentials with the remote service
type AuthAPI interface {
	// Login exchanges a username and password for a bearer token
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, reg domain.Registration) error
}

// ProfileAPI reads and updates the signed-in user
type ProfileAPI interface {
	Me(ctx context.Context) (*domain.Profile, error)
	UpdateMe(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error)
}

// BookAPI manages the user's books
type BookAPI interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	CreateBook(ctx context.Context, draft domain.BookDraft) (*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	// LookupISBN resolves metadata for an ISBN. A miss is reported as
	// application.LookupMiss.
	LookupISBN(ctx context.Context, isbn string) (*domain.ISBNMetadata, error)

	// ExportCSV streams the catalog export into w and returns the filename
	// suggested by the server.
	ExportCSV(ctx context.Context, w io.Writer) (string, error)
	ImportCSV(ctx context.Context, filename string, r io.Reader) (*domain.ImportResult, error)
}

// LocationAPI manages shelving locations
type LocationAPI interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	CreateLocation(ctx context.Context, draft domain.LocationDraft) (*domain.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

// StatsAPI fetches aggregate statistics
type StatsAPI interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

// LibraryAPI is the whole remote service as the client sees it
type LibraryAPI interface {
	AuthAPI
	ProfileAPI
	BookAPI
	LocationAPI
	StatsAPI
}
