package apiclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
	"mylibrary/internal/testsupport/fakeapi"
)

type stubSession struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (s *stubSession) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

type note struct {
	level   ports.Level
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(level ports.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{level, message})
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *stubSession, *recordingNotifier) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sess := &stubSession{token: token}
	notes := &recordingNotifier{}
	return New(ts.URL+"/api", sess, WithNotifier(notes)), sess, notes
}

func TestCall_AuthorizationHeader(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		anonymous bool
		want      string
	}{
		{name: "no credential omits header", token: "", want: ""},
		{name: "credential adds bearer", token: "abc.def", want: "Bearer abc.def"},
		{name: "anonymous call omits header", token: "abc.def", anonymous: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			var present bool
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Values("Authorization")
				_, present = r.Header["Authorization"]
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				w.WriteHeader(http.StatusNoContent)
			}, tt.token)

			_, err := client.Call(context.Background(), http.MethodGet, "/books/", Request{Anonymous: tt.anonymous})
			require.NoError(t, err)

			if tt.want == "" {
				assert.False(t, present, "Authorization header must be absent")
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestCall_UnauthorizedClearsSession(t *testing.T) {
	endpoints := []string{"/users/me", "/books/", "/stats/", "/locations/", "/books/42"}

	for _, endpoint := range endpoints {
		t.Run(endpoint, func(t *testing.T) {
			client, sess, notes := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			}, "stale")

			_, err := client.Call(context.Background(), http.MethodGet, endpoint, Request{})

			var authErr *application.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.True(t, errors.Is(err, application.ErrUnauthorized))
			assert.Equal(t, "", sess.Credential())
			assert.Equal(t, 1, sess.cleared)
			require.Len(t, notes.all(), 1)
			assert.Equal(t, "Could not validate credentials", notes.all()[0].message)
		})
	}
}

func TestCall_ErrorNormalisation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantLevel   ports.Level
	}{
		{name: "string detail", status: 400, body: `{"detail":"Username already registered"}`, wantMessage: "Username already registered", wantLevel: ports.LevelError},
		{name: "validation list", status: 422, body: `{"detail":[{"loc":["body","title"],"msg":"field required"}]}`, wantMessage: "field required", wantLevel: ports.LevelError},
		{name: "html body", status: 502, body: `<html>Bad gateway</html>`, wantMessage: application.DefaultRequestMessage, wantLevel: ports.LevelError},
		{name: "empty body", status: 500, body: ``, wantMessage: application.DefaultRequestMessage, wantLevel: ports.LevelError},
		{name: "not found is a warning", status: 404, body: `{"detail":"Book not found"}`, wantMessage: "Book not found", wantLevel: ports.LevelWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, sess, notes := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "token")

			_, err := client.Call(context.Background(), http.MethodGet, "/books/", Request{})

			var reqErr *application.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Equal(t, tt.wantMessage, reqErr.Error())
			assert.Equal(t, "token", sess.Credential(), "only 401 clears the session")

			got := notes.all()
			require.Len(t, got, 1, "every failure is notified exactly once")
			assert.Equal(t, tt.wantLevel, got[0].level)
			assert.Equal(t, tt.wantMessage, got[0].message)
		})
	}
}

func TestCall_SuccessBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
	}{
		{name: "json object", body: `{"ok":true}`, wantNil: false},
		{name: "empty", body: ``, wantNil: true},
		{name: "whitespace", body: "  \n", wantNil: true},
		{name: "not json", body: `done`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, notes := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, "")

			raw, err := client.Call(context.Background(), http.MethodGet, "/x", Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, raw == nil)
			assert.Empty(t, notes.all())
		})
	}
}

func TestCall_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	notes := &recordingNotifier{}
	client := New(url+"/api", &stubSession{}, WithNotifier(notes))

	_, err := client.Call(context.Background(), http.MethodGet, "/books/", Request{})

	var reqErr *application.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.Status)
	assert.NotNil(t, errors.Unwrap(err))
	assert.Len(t, notes.all(), 1)
}

func TestLogin_FormEncoded(t *testing.T) {
	var contentType, auth, body string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		body = buf.String()
		_, _ = w.Write([]byte(`{"access_token":"jwt-token","token_type":"bearer"}`))
	}, "previous")

	token, err := client.Login(context.Background(), "ada", "p&ss word")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Empty(t, auth, "login never sends a credential")
	assert.Contains(t, body, "username=ada")
	assert.Contains(t, body, "password=p%26ss+word")
}

func TestLookupISBN_Miss(t *testing.T) {
	client, _, notes := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Book not found for this ISBN"}`))
	}, "token")

	meta, err := client.LookupISBN(context.Background(), "9999999999999")
	assert.Nil(t, meta)
	assert.True(t, errors.Is(err, application.ErrLookupMiss))

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, ports.LevelWarning, got[0].level)
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "library_ada.csv", attachmentName(`attachment; filename=library_ada.csv`))
	assert.Equal(t, "my books.csv", attachmentName(`attachment; filename="my books.csv"`))
	assert.Equal(t, "", attachmentName(""))
}

func TestClient_AgainstFakeAPI(t *testing.T) {
	api := fakeapi.New()
	api.AddUser("ada", "secret")
	base := api.Start(t)

	sess := &stubSession{}
	client := New(base, sess)
	ctx := context.Background()

	token, err := client.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	sess.token = token

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", me.Username)

	shelf, err := client.CreateLocation(ctx, domain.LocationDraft{Name: "Living room"})
	require.NoError(t, err)

	created, err := client.CreateBook(ctx, domain.BookDraft{
		Title:      "Good Omens",
		Authors:    domain.SplitList("Terry Pratchett, Neil Gaiman"),
		LocationID: shelf.ID,
		TagNames:   []string{"fantasy", "humour"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Authors{"Terry Pratchett", "Neil Gaiman"}, created.Authors)
	assert.Equal(t, shelf.ID, created.LocationID)
	assert.Equal(t, []string{"fantasy", "humour"}, created.TagNames())

	rec, ok := api.LastRequest(http.MethodPost, "/books/")
	require.True(t, ok)
	assert.Contains(t, string(rec.Body), `"authors":"[\"Terry Pratchett\",\"Neil Gaiman\"]"`)

	books, err := client.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, client.DeleteBook(ctx, created.ID))
	books, err = client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	var out bytes.Buffer
	name, err := client.ExportCSV(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, "library_ada.csv", name)
	assert.True(t, strings.HasPrefix(out.String(), "ISBN,Title,Authors"))

	api.SetISBN(domain.ISBNMetadata{ISBN: "9780261103344", Title: "The Hobbit", Authors: []string{"J.R.R. Tolkien"}})
	result, err := client.ImportCSV(ctx, "books.csv", strings.NewReader("ISBN,Title\n9780261103344,\n,Nameless\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"Row 3: missing ISBN"}, result.Errors)

	rec, ok = api.LastRequest(http.MethodPost, "/books/import/csv")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(rec.ContentType, "multipart/form-data"))

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBooks)

	require.NoError(t, client.DeleteLocation(ctx, shelf.ID))
	locations, err := client.ListLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)
}
