// Package client talks to a packlist server: it uploads trip media with the
// trip details and renders the returned checklist in a terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/packlist/internal/adapters/http/respond"
	"github.com/okian/packlist/internal/domain/model"
)

// Default client settings.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 5 * time.Minute

	generatePath     = "/api/generate-checklist"
	maxErrorBodySize = 64 << 10
)

// ErrNoFiles is returned when a trip carries no files. The server would
// reject it; the client fails early instead of uploading.
var ErrNoFiles = errors.New("at least one file is required")

// File is one upload. Open is called once per request so the same File can
// be sent repeatedly.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromPath returns a File reading from disk.
func FromPath(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FromBytes returns a File with in-memory content.
func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Trip is the content of one checklist request.
type Trip struct {
	Files       []File
	Destination string
	StartDate   string
	EndDate     string
	Notes       *string
}

// APIError is a non-200 answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server answered %d %s: %s", e.Status, e.Code, e.Message)
	if len(e.Fields) > 0 {
		msg += " [" + strings.Join(e.Fields, ", ") + "]"
	}
	return msg
}

// Client posts checklist requests.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the whole-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate uploads the trip and returns the server's checklist. The body is
// streamed, so large videos are never held in memory.
func (c *Client) Generate(ctx context.Context, trip Trip) (*model.ChecklistResponse, error) {
	if len(trip.Files) == 0 {
		return nil, ErrNoFiles
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, trip))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checklist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out model.ChecklistResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode checklist: %w", err)
	}
	return &out, nil
}

// writeForm writes the multipart body: files first, then text fields.
func writeForm(mw *multipart.Writer, trip Trip) error {
	for _, f := range trip.Files {
		if err := writeFile(mw, f); err != nil {
			return err
		}
	}

	fields := [][2]string{
		{model.FieldDestination, trip.Destination},
		{model.FieldStartDate, trip.StartDate},
		{model.FieldEndDate, trip.EndDate},
	}
	if trip.Notes != nil {
		fields = append(fields, [2]string{model.FieldNotes, *trip.Notes})
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, f File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     model.FieldFiles,
		"filename": f.Name,
	}))
	h.Set("Content-Type", contentType(f.Name))

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("failed to upload %s: %w", f.Name, err)
	}
	return nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	apiErr := &APIError{Status: resp.StatusCode, Code: "unknown", Message: strings.TrimSpace(string(body))}

	var eb respond.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Code != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		apiErr.Fields = eb.Fields
	}
	return apiErr
}
