package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"mylibrary/internal/application"
	"mylibrary/internal/domain"
)

// Login posts the OAuth2 password form. It never sends a credential.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	ok, err := c.callJSON(ctx, http.MethodPost, "/auth/login", Request{
		Body:        strings.NewReader(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
		Anonymous:   true,
	}, &token)
	if err != nil {
		return "", err
	}
	if !ok || token.AccessToken == "" {
		return "", c.fail(http.MethodPost, "/auth/login", &application.RequestError{Message: "login response carried no token"})
	}
	return token.AccessToken, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	req, err := JSONBody(reg)
	if err != nil {
		return err
	}
	req.Anonymous = true
	_, err = c.callJSON(ctx, http.MethodPost, "/auth/register", req, nil)
	return err
}

// Me fetches the signed-in user
func (c *Client) Me(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	ok, err := c.callJSON(ctx, http.MethodGet, "/users/me", Request{}, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// UpdateMe partially updates the signed-in user
func (c *Client) UpdateMe(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	var p domain.Profile
	ok, err := c.sendJSON(ctx, http.MethodPatch, "/users/me", update, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// ListBooks returns every book of the user, pinned first, newest first
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if _, err := c.callJSON(ctx, http.MethodGet, "/books/", Request{}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook adds a book
func (c *Client) CreateBook(ctx context.Context, draft domain.BookDraft) (*domain.Book, error) {
	var b domain.Book
	ok, err := c.sendJSON(ctx, http.MethodPost, "/books/", draft, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// UpdateBook applies a partial update
func (c *Client) UpdateBook(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	var b domain.Book
	ok, err := c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/books/%d", id), patch, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// DeleteBook removes a book
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), Request{})
	return err
}

// LookupISBN resolves metadata. A 404 becomes *application.LookupMiss.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*domain.ISBNMetadata, error) {
	var meta domain.ISBNMetadata
	ok, err := c.callJSON(ctx, http.MethodGet, "/books/isbn/lookup/"+url.PathEscape(isbn), Request{}, &meta)
	if err != nil {
		var reqErr *application.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
			return nil, &application.LookupMiss{ISBN: isbn}
		}
		return nil, err
	}
	if !ok {
		return nil, &application.LookupMiss{ISBN: isbn}
	}
	return &meta, nil
}

// ExportCSV streams the server-generated export into w
func (c *Client) ExportCSV(ctx context.Context, w io.Writer) (string, error) {
	const endpoint = "/books/export/csv"
	resp, err := c.do(ctx, http.MethodGet, endpoint, Request{Header: http.Header{"Accept": {"text/csv"}}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", c.fail(http.MethodGet, endpoint, &application.RequestError{
			Status:  resp.StatusCode,
			Message: "export interrupted",
			Err:     err,
		})
	}
	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// ImportCSV uploads a CSV file as multipart form data
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader) (*domain.ImportResult, error) {
	const endpoint = "/books/import/csv"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err == nil {
		_, err = io.Copy(part, r)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return nil, c.fail(http.MethodPost, endpoint, &application.RequestError{Message: "failed to read import file", Err: err})
	}

	var result domain.ImportResult
	ok, err := c.callJSON(ctx, http.MethodPost, endpoint, Request{
		Body:        &body,
		ContentType: mw.FormDataContentType(),
	}, &result)
	if err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

// ListLocations returns the user's locations
func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	if _, err := c.callJSON(ctx, http.MethodGet, "/locations/", Request{}, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation adds a location
func (c *Client) CreateLocation(ctx context.Context, draft domain.LocationDraft) (*domain.Location, error) {
	var l domain.Location
	ok, err := c.sendJSON(ctx, http.MethodPost, "/locations/", draft, &l)
	if err != nil || !ok {
		return nil, err
	}
	return &l, nil
}

// DeleteLocation removes a location
func (c *Client) DeleteLocation(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/locations/%d", id), Request{})
	return err
}

// Stats fetches the aggregate statistics
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var s domain.Stats
	ok, err := c.callJSON(ctx, http.MethodGet, "/stats/", Request{}, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// attachmentName extracts the filename of a Content-Disposition header
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
