// Package fakeapi is an in-memory implementation of the remote library API
// for tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"mylibrary/internal/domain"
)

// Recorded is one request as the server saw it
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

type failure struct {
	status int
	body   string
}

type account struct {
	profile  domain.Profile
	password string
	books    []domain.Book
	places   []domain.Location
	tags     map[string]int64
}

// Server is a fake of the remote API. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]string
	isbns    map[string]domain.ISBNMetadata
	failures map[string]failure
	requests []Recorded
	nextID   int64
	now      func() time.Time
}

// New creates an empty fake server
func New() *Server {
	return &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		isbns:    make(map[string]domain.ISBNMetadata),
		failures: make(map[string]failure),
		now:      time.Now,
	}
}

// Start serves the fake and returns the API base URL (ending in /api)
func (s *Server) Start(t testing.TB) string {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

// Handler returns the chi router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/me", s.getMe)
			r.Patch("/users/me", s.patchMe)

			r.Get("/books/", s.listBooks)
			r.Post("/books/", s.createBook)
			r.Get("/books/export/csv", s.exportCSV)
			r.Post("/books/import/csv", s.importCSV)
			r.Get("/books/isbn/lookup/{isbn}", s.lookupISBN)
			r.Patch("/books/{id}", s.patchBook)
			r.Delete("/books/{id}", s.deleteBook)

			r.Get("/locations/", s.listLocations)
			r.Post("/locations/", s.createLocation)
			r.Delete("/locations/{id}", s.deleteLocation)

			r.Get("/stats/", s.stats)
		})
	})
	return r
}

// AddUser creates an account and returns its profile
func (s *Server) AddUser(username, password string) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, password, username+"@example.org")
}

func (s *Server) addUserLocked(username, password, email string) domain.Profile {
	s.nextID++
	a := &account{
		profile: domain.Profile{
			ID:        s.nextID,
			Username:  username,
			Email:     email,
			CreatedAt: s.now().UTC(),
		},
		password: password,
		tags:     make(map[string]int64),
	}
	s.accounts[username] = a
	return a.profile
}

// IssueToken returns a valid bearer token for username
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}

func (s *Server) issueLocked(username string) string {
	s.nextID++
	token := fmt.Sprintf("token-%s-%d", username, s.nextID)
	s.tokens[token] = username
	return token
}

// RevokeTokens invalidates every issued token
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// UpdateProfile edits an account directly
func (s *Server) UpdateProfile(username string, fn func(p *domain.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[username]; ok {
		fn(&a.profile)
	}
}

// SeedLocation stores a location for username and returns it with its ID
func (s *Server) SeedLocation(username string, l domain.Location) domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	s.nextID++
	l.ID = s.nextID
	a.places = append(a.places, l)
	return l
}

// SeedBook stores a book for username and returns it with its ID
func (s *Server) SeedBook(username string, b domain.Book) domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	s.nextID++
	b.ID = s.nextID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC().Add(timeOffset(b.ID))
	}
	if b.Tags == nil {
		b.Tags = []domain.Tag{}
	}
	a.resolveLocation(&b)
	a.books = append(a.books, b)
	return b
}

// Books returns the stored books of username as listed by the API
func (s *Server) Books(username string) []domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[username].sortedBooks()
}

// SetISBN registers metadata for the lookup endpoint
func (s *Server) SetISBN(meta domain.ISBNMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isbns[meta.ISBN] = meta
}

// Fail makes the next request matching method and path answer with status
// and body. Path is relative to the API base, e.g. "/books/".
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" /api"+path] = failure{status: status, body: body}
}

// Requests returns every request received so far
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// LastRequest returns the most recent request for method and API path
func (s *Server) LastRequest(method, path string) (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if r.Method == method && r.Path == "/api"+path {
			return r, true
		}
	}
	return Recorded{}, false
}

// CountRequests returns how many requests hit method and API path
func (s *Server) CountRequests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == "/api"+path {
			n++
		}
	}
	return n
}

func (a *account) sortedBooks() []domain.Book {
	out := append([]domain.Book{}, a.books...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (a *account) resolveLocation(b *domain.Book) {
	b.Location = nil
	if b.LocationID == 0 {
		return
	}
	if l, ok := domain.FindLocation(a.places, b.LocationID); ok {
		b.Location = &l
		return
	}
	b.LocationID = 0
}

func (a *account) resolveTags(names []string, nextID func() int64) []domain.Tag {
	tags := make([]domain.Tag, 0, len(names))
	seen := make(map[string]bool)
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		id, ok := a.tags[key]
		if !ok {
			id = nextID()
			a.tags[key] = id
		}
		tags = append(tags, domain.Tag{ID: id, Name: strings.TrimSpace(n)})
	}
	return tags
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
