// Package client provides a Go client for the listing API plus the session
// and gallery state models used by the admin panel and the public site.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TokenSource supplies the bearer token attached to admin-scoped requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenStore is an in-memory TokenSource safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// Token returns the currently stored token, or empty when logged out.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.Set("")
}

// House mirrors the API's house payload.
type House struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Address     string       `json:"address"`
	Price       float64      `json:"price"`
	Area        *int         `json:"area"`
	Rooms       *int         `json:"rooms"`
	Bedrooms    *int         `json:"bedrooms"`
	Bathrooms   *int         `json:"bathrooms"`
	Floor       *int         `json:"floor"`
	TotalFloors *int         `json:"totalFloors"`
	YearBuilt   *int         `json:"yearBuilt"`
	HouseType   string       `json:"houseType"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	SortOrder   int          `json:"sortOrder"`
	IsFeatured  bool         `json:"isFeatured"`
	IsActive    bool         `json:"isActive"`
	Images      []HouseImage `json:"images"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// HouseImage mirrors the API's image payload.
type HouseImage struct {
	ID        uint   `json:"id"`
	HouseID   uint   `json:"houseId"`
	ImageURL  string `json:"imageUrl"`
	Caption   string `json:"caption"`
	ImageType string `json:"imageType"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}

// User is the authenticated account returned by login.
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult carries the bearer token and the authenticated user.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Health is the liveness probe response.
type Health struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// APIError is a non-2xx response decoded from the API envelope.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsAuthFailure reports whether err is an authorization failure (401 or 403),
// the signal for a forced logout.
func IsAuthFailure(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// FileUpload is one image file attached to a create or update submission.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// HouseUpload is a typed create/update submission. Nil fields are omitted
// from the multipart body, so updates only change what the caller sets.
type HouseUpload struct {
	Title       *string
	Address     *string
	Price       *float64
	Area        *int
	Rooms       *int
	Bedrooms    *int
	Bathrooms   *int
	Floor       *int
	TotalFloors *int
	YearBuilt   *int
	HouseType   *string
	Status      *string
	Description *string
	SortOrder   *int
	IsFeatured  *bool

	Files []FileUpload
}

// Client is an HTTP client for the listing API. The bearer token is read from
// the TokenSource on every request, never cached on the client itself.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a Client for the API at baseURL. tokens may be nil for a
// read-only public client.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Count   *int              `json:"count"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckHealth calls the liveness probe.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: h.Message}
	}
	return &h, nil
}

// ListHouses returns the active public listings.
func (c *Client) ListHouses(ctx context.Context) ([]House, error) {
	var houses []House
	if err := c.do(ctx, http.MethodGet, "/api/houses", nil, "", &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// ListAllHouses returns every listing including soft-deleted ones. Admin only.
func (c *Client) ListAllHouses(ctx context.Context) ([]House, error) {
	var houses []House
	if err := c.do(ctx, http.MethodGet, "/api/houses/all", nil, "", &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// GetHouse returns one listing by id.
func (c *Client) GetHouse(ctx context.Context, id uint) (*House, error) {
	var house House
	if err := c.do(ctx, http.MethodGet, "/api/houses/"+strconv.FormatUint(uint64(id), 10), nil, "", &house); err != nil {
		return nil, err
	}
	return &house, nil
}

// CreateHouse creates a listing with optional image files. Admin only.
func (c *Client) CreateHouse(ctx context.Context, up *HouseUpload) (*House, error) {
	body, contentType, err := encodeMultipart(up)
	if err != nil {
		return nil, err
	}
	var house House
	if err := c.do(ctx, http.MethodPost, "/api/houses", body, contentType, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

// UpdateHouse partially updates a listing; new files are appended. Admin only.
func (c *Client) UpdateHouse(ctx context.Context, id uint, up *HouseUpload) (*House, error) {
	body, contentType, err := encodeMultipart(up)
	if err != nil {
		return nil, err
	}
	var house House
	path := "/api/houses/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodPut, path, body, contentType, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

// DeleteHouse soft-deletes a listing. Admin only.
func (c *Client) DeleteHouse(ctx context.Context, id uint) error {
	path := "/api/houses/" + strconv.FormatUint(uint64(id), 10)
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// DeleteImage permanently removes one image from a listing. Admin only.
func (c *Client) DeleteImage(ctx context.Context, houseID, imageID uint) error {
	path := fmt.Sprintf("/api/houses/%d/images/%d", houseID, imageID)
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// do performs one request, injecting the current bearer token, and decodes
// the envelope's data into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		message := env.Message
		if message == "" {
			message = env.Error
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Fields:     env.Errors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// encodeMultipart serializes a HouseUpload into a multipart body. Only set
// fields are written; files go under the repeated "images" field.
func encodeMultipart(up *HouseUpload) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	var writeErr error
	setString := func(key string, v *string) {
		if v != nil && writeErr == nil {
			writeErr = mw.WriteField(key, *v)
		}
	}
	setInt := func(key string, v *int) {
		if v != nil && writeErr == nil {
			writeErr = mw.WriteField(key, strconv.Itoa(*v))
		}
	}

	if up != nil {
		setString("title", up.Title)
		setString("address", up.Address)
		if up.Price != nil && writeErr == nil {
			writeErr = mw.WriteField("price", strconv.FormatFloat(*up.Price, 'f', -1, 64))
		}
		setInt("area", up.Area)
		setInt("rooms", up.Rooms)
		setInt("bedrooms", up.Bedrooms)
		setInt("bathrooms", up.Bathrooms)
		setInt("floor", up.Floor)
		setInt("totalFloors", up.TotalFloors)
		setInt("yearBuilt", up.YearBuilt)
		setString("houseType", up.HouseType)
		setString("status", up.Status)
		setString("description", up.Description)
		setInt("sortOrder", up.SortOrder)
		if up.IsFeatured != nil && writeErr == nil {
			writeErr = mw.WriteField("isFeatured", strconv.FormatBool(*up.IsFeatured))
		}
	}
	if writeErr != nil {
		return nil, "", writeErr
	}

	if up != nil {
		for _, f := range up.Files {
			// The server validates the declared part Content-Type against its
			// image allow-list, so each part carries the type implied by the
			// file extension rather than the multipart default octet-stream.
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition",
				fmt.Sprintf(`form-data; name="images"; filename="%s"`, escapeQuotes(f.Name)))
			h.Set("Content-Type", fileContentType(f.Name))
			fw, err := mw.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			if _, err := io.Copy(fw, f.Reader); err != nil {
				return nil, "", err
			}
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// fileContentType maps a file name to the MIME type its extension implies,
// mirroring what a browser declares for a picked file.
func fileContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
