// Package client is a typed Go client for the travel booking REST API. Like
// the browser front end, it keeps the bearer token returned by Register or
// Login and sends it with every later request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

const httpTimeout = 10 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the API rooted at baseURL (for example http://localhost:5000/api).
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New constructs a Client with a 10-second request timeout.
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: httpTimeout})
}

// NewWithHTTPClient constructs a Client that sends requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Token returns the bearer token in use, or "" when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token, e.g. one restored from disk.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout forgets the bearer token.
func (c *Client) Logout() { c.SetToken("") }

// Register creates an account and keeps its token.
func (c *Client) Register(ctx context.Context, in travel.RegisterInput) (*travel.AuthResult, error) {
	var res travel.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Login exchanges credentials for a token and keeps it.
func (c *Client) Login(ctx context.Context, in travel.LoginInput) (*travel.AuthResult, error) {
	var res travel.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*travel.User, error) {
	var u travel.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListDestinations lists destinations matching f.
func (c *Client) ListDestinations(ctx context.Context, f travel.DestinationFilter) ([]travel.Destination, error) {
	q := url.Values{}
	if f.Region != "" {
		q.Set("region", f.Region)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var ds []travel.Destination
	if err := c.do(ctx, http.MethodGet, "/destinations", q, nil, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// ListPackages lists packages matching f, destinations populated.
func (c *Client) ListPackages(ctx context.Context, f travel.PackageFilter) ([]travel.Package, error) {
	q := url.Values{}
	if f.DestinationID != nil {
		q.Set("destination", f.DestinationID.String())
	}
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Duration != nil {
		q.Set("duration", strconv.Itoa(*f.Duration))
	}

	var ps []travel.Package
	if err := c.do(ctx, http.MethodGet, "/packages", q, nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// CreateBooking books a package for the logged-in user.
func (c *Client) CreateBooking(ctx context.Context, in travel.BookingInput) (*travel.Booking, error) {
	var b travel.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns the logged-in user's bookings, newest first.
func (c *Client) ListBookings(ctx context.Context) ([]travel.Booking, error) {
	var bs []travel.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, nil, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// CancelBooking cancels a booking and returns it.
func (c *Client) CancelBooking(ctx context.Context, id string) (*travel.Booking, error) {
	var b travel.Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/cancel", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateReview posts a review of a package and/or destination.
func (c *Client) CreateReview(ctx context.Context, in travel.ReviewInput) (*travel.Review, error) {
	var r travel.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// do sends a JSON request and decodes a 2xx JSON response into dst. Other
// statuses become *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dst any) error {
	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request for %s: %w", rawURL, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}
