package fakeapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mylibrary/internal/domain"
)

type ctxKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if ok {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		username, known := s.tokens[token]
		s.mu.Unlock()

		if !ok || !known {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, username)))
	})
}

// withAccount runs fn under the lock with the caller's account
func (s *Server) withAccount(r *http.Request, fn func(a *account)) {
	username, _ := r.Context().Value(ctxKey{}).(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.accounts[username])
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok || a.password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.issueLocked(username),
		"token_type":   "bearer",
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[reg.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	p := s.addUserLocked(reg.Username, reg.Password, reg.Email)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	s.withAccount(r, func(a *account) {
		writeJSON(w, http.StatusOK, a.profile)
	})
}

func (s *Server) patchMe(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.withAccount(r, func(a *account) {
		p := &a.profile
		if update.DisplayName != nil {
			p.DisplayName = *update.DisplayName
		}
		if update.Bio != nil {
			p.Bio = *update.Bio
		}
		if update.AvatarURL != nil {
			p.AvatarURL = *update.AvatarURL
		}
		if update.IsLibraryPublic != nil {
			p.IsLibraryPublic = *update.IsLibraryPublic
		}
		if update.ShowTagsPublic != nil {
			p.ShowTagsPublic = *update.ShowTagsPublic
		}
		if update.ShowNotesPublic != nil {
			p.ShowNotesPublic = *update.ShowNotesPublic
		}
		if update.ShowConditionPublic != nil {
			p.ShowConditionPublic = *update.ShowConditionPublic
		}
		writeJSON(w, http.StatusOK, a.profile)
	})
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	s.withAccount(r, func(a *account) {
		writeJSON(w, http.StatusOK, a.sortedBooks())
	})
}

type bookPayload struct {
	Title         string         `json:"title"`
	Authors       domain.Authors `json:"authors"`
	ISBN          *string        `json:"isbn"`
	CoverURL      *string        `json:"cover_url"`
	Publisher     *string        `json:"publisher"`
	PublishedYear *int           `json:"published_year"`
	PageCount     *int           `json:"page_count"`
	Description   *string        `json:"description"`
	LocationID    *int64         `json:"location_id"`
	Condition     *string        `json:"condition"`
	Notes         *string        `json:"notes"`
	TagNames      []string       `json:"tag_names"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var in bookPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "title"}, "msg": "field required"}},
		})
		return
	}

	s.withAccount(r, func(a *account) {
		b := domain.Book{
			ID:            s.allocID(),
			Title:         in.Title,
			Authors:       in.Authors,
			ISBN:          str(in.ISBN),
			CoverURL:      str(in.CoverURL),
			Publisher:     str(in.Publisher),
			PublishedYear: num(in.PublishedYear),
			PageCount:     num(in.PageCount),
			Description:   str(in.Description),
			Condition:     domain.Condition(str(in.Condition)),
			Notes:         str(in.Notes),
			CreatedAt:     s.now().UTC(),
		}
		if in.LocationID != nil {
			b.LocationID = *in.LocationID
		}
		b.CreatedAt = b.CreatedAt.Add(timeOffset(b.ID))
		b.Tags = a.resolveTags(in.TagNames, s.allocID)
		a.resolveLocation(&b)
		a.books = append(a.books, b)
		writeJSON(w, http.StatusCreated, b)
	})
}

func (s *Server) patchBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.withAccount(r, func(a *account) {
		for i := range a.books {
			b := &a.books[i]
			if b.ID != id {
				continue
			}
			if err := applyPatch(b, fields, func(names []string) []domain.Tag {
				return a.resolveTags(names, s.allocID)
			}); err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			a.resolveLocation(b)
			writeJSON(w, http.StatusOK, *b)
			return
		}
		writeDetail(w, http.StatusNotFound, "Book not found")
	})
}

func applyPatch(b *domain.Book, fields map[string]json.RawMessage, tags func([]string) []domain.Tag) error {
	for k, raw := range fields {
		var err error
		switch k {
		case "title":
			err = json.Unmarshal(raw, &b.Title)
		case "authors":
			err = json.Unmarshal(raw, &b.Authors)
		case "is_pinned":
			err = json.Unmarshal(raw, &b.IsPinned)
		case "tag_names":
			var names []string
			if err = json.Unmarshal(raw, &names); err == nil {
				b.Tags = tags(names)
			}
		case "location_id":
			var id *int64
			if err = json.Unmarshal(raw, &id); err == nil {
				b.LocationID = 0
				if id != nil {
					b.LocationID = *id
				}
			}
		case "published_year", "page_count":
			var n *int
			if err = json.Unmarshal(raw, &n); err == nil {
				if k == "published_year" {
					b.PublishedYear = num(n)
				} else {
					b.PageCount = num(n)
				}
			}
		default:
			var v *string
			if err = json.Unmarshal(raw, &v); err != nil {
				break
			}
			switch k {
			case "cover_url":
				b.CoverURL = str(v)
			case "publisher":
				b.Publisher = str(v)
			case "description":
				b.Description = str(v)
			case "condition":
				b.Condition = domain.Condition(str(v))
			case "notes":
				b.Notes = str(v)
			default:
				return fmt.Errorf("unknown field %s", k)
			}
		}
		if err != nil {
			return fmt.Errorf("invalid %s: %w", k, err)
		}
	}
	return nil
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.withAccount(r, func(a *account) {
		for i, b := range a.books {
			if b.ID == id {
				a.books = append(a.books[:i], a.books[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeDetail(w, http.StatusNotFound, "Book not found")
	})
}

func (s *Server) lookupISBN(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	s.mu.Lock()
	meta, ok := s.isbns[isbn]
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found for this ISBN")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	s.withAccount(r, func(a *account) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=library_%s.csv", a.profile.Username))

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"ISBN", "Title", "Authors", "Publisher", "Published Year", "Page Count", "Location", "Condition", "Tags", "Notes", "Added"})
		for _, b := range a.sortedBooks() {
			location := ""
			if b.Location != nil {
				location = b.Location.Name
			}
			year := ""
			if b.PublishedYear != 0 {
				year = strconv.Itoa(b.PublishedYear)
			}
			pages := ""
			if b.PageCount != 0 {
				pages = strconv.Itoa(b.PageCount)
			}
			_ = cw.Write([]string{
				b.ISBN, b.Title, b.Authors.Joined(), b.Publisher, year, pages, location,
				string(b.Condition), strings.Join(b.TagNames(), ", "), b.Notes, b.CreatedAt.Format("2006-01-02"),
			})
		}
		cw.Flush()
	})
}

func (s *Server) importCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "File must be a CSV")
		return
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		writeDetail(w, http.StatusBadRequest, "Could not parse CSV")
		return
	}

	// Header names are matched exactly. Without an ISBN column every row
	// fails.
	col := make(map[string]int)
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	result := domain.ImportResult{Errors: []string{}}
	s.withAccount(r, func(a *account) {
		for n, row := range rows[1:] {
			result.Total++
			result.Processed++
			rowNum := n + 2

			isbn := field(row, "ISBN")
			title := field(row, "Title")
			authors := domain.SplitList(field(row, "Authors"))
			if meta, ok := s.isbns[isbn]; ok && title == "" {
				title = meta.Title
				authors = meta.Authors
			}

			switch {
			case isbn == "":
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing ISBN", rowNum))
			case title == "":
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: could not find book data for ISBN %s", rowNum, isbn))
			default:
				id := s.allocID()
				a.books = append(a.books, domain.Book{
					ID:        id,
					Title:     title,
					Authors:   authors,
					ISBN:      isbn,
					Tags:      []domain.Tag{},
					CreatedAt: s.now().UTC().Add(timeOffset(id)),
				})
				result.Successful++
			}
		}
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	s.withAccount(r, func(a *account) {
		out := append([]domain.Location{}, a.places...)
		writeJSON(w, http.StatusOK, out)
	})
}

func (s *Server) createLocation(w http.ResponseWriter, r *http.Request) {
	var draft domain.LocationDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || strings.TrimSpace(draft.Name) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Location name is required")
		return
	}
	s.withAccount(r, func(a *account) {
		l := domain.Location{ID: s.allocID(), Name: draft.Name, Description: draft.Description}
		a.places = append(a.places, l)
		writeJSON(w, http.StatusCreated, l)
	})
}

func (s *Server) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.withAccount(r, func(a *account) {
		for i, l := range a.places {
			if l.ID != id {
				continue
			}
			a.places = append(a.places[:i], a.places[i+1:]...)
			for j := range a.books {
				if a.books[j].LocationID == id {
					a.books[j].LocationID = 0
					a.books[j].Location = nil
				}
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeDetail(w, http.StatusNotFound, "Location not found")
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.withAccount(r, func(a *account) {
		books := a.sortedBooks()
		st := domain.Stats{
			TotalBooks:      len(books),
			BooksByAuthor:   []domain.AuthorCount{},
			BooksByTag:      []domain.TagCount{},
			BooksByLocation: []domain.LocationCount{},
			PinnedBooks:     []domain.Book{},
			RecentAdditions: []domain.Book{},
		}

		authors := map[string]int{}
		tags := map[string]int{}
		places := map[int64]int{}
		for _, b := range books {
			for _, au := range b.Authors {
				authors[au]++
			}
			for _, t := range b.Tags {
				tags[t.Name]++
			}
			if b.LocationID != 0 {
				places[b.LocationID]++
			}
			if b.IsPinned {
				st.PinnedBooks = append(st.PinnedBooks, b)
			}
		}
		for name, n := range authors {
			st.BooksByAuthor = append(st.BooksByAuthor, domain.AuthorCount{Author: name, Count: n})
		}
		for name, n := range tags {
			st.BooksByTag = append(st.BooksByTag, domain.TagCount{Tag: name, Count: n})
		}
		for _, l := range a.places {
			st.BooksByLocation = append(st.BooksByLocation, domain.LocationCount{Location: l.Name, Count: places[l.ID]})
		}
		sortCounts(st.BooksByAuthor, func(c domain.AuthorCount) (string, int) { return c.Author, c.Count })
		sortCounts(st.BooksByTag, func(c domain.TagCount) (string, int) { return c.Tag, c.Count })

		recent := append([]domain.Book(nil), a.books...)
		sortByNewest(recent)
		if len(recent) > 10 {
			recent = recent[:10]
		}
		st.RecentAdditions = append(st.RecentAdditions, recent...)
		writeJSON(w, http.StatusOK, st)
	})
}
