package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
)

const (
	DefaultBaseURL   = "https://api.moviefinder.stephanhagmann.ch"
	DefaultUserAgent = "mfx/0.1.0"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Options configures a [Client].
type Options struct {
	// BaseURL defaults to [DefaultBaseURL].
	BaseURL string
	// Store holds the session credential. Required.
	Store session.Store
	// HTTPClient supplies the base transport and timeout. Defaults to [http.DefaultClient].
	HTTPClient *http.Client
	Logger     *log.Logger
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	UserAgent         string
}

// Client talks to the MovieFinder backend on behalf of one session.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	store     session.Store
	logger    *log.Logger
	expiry    *expiryBus

	Auth   *AuthService
	Groups *GroupService
	Movies *MovieService
}

// NewClient builds a client whose transport runs the bearer, logging, expiry and rate limit interceptors.
func NewClient(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: session store is required", shared.ErrMissingArgument)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", shared.ErrInvalidConfig, opts.BaseURL)
	}
	if opts.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("%w: requests per second must not be negative", shared.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	base := http.DefaultClient
	if opts.HTTPClient != nil {
		base = opts.HTTPClient
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		store:     opts.Store,
		logger:    logger,
		expiry:    newExpiryBus(),
	}

	interceptors := []Interceptor{
		WithBearer(opts.Store),
		WithLogging(logger),
		WithExpiry(opts.Store, logger, c.expiry.publish),
	}
	if opts.RequestsPerSecond > 0 {
		interceptors = append(interceptors, WithRateLimit(opts.RequestsPerSecond))
	}

	hc := *base
	hc.Transport = Chain(base.Transport, interceptors...)
	c.http = &hc

	c.Auth = &AuthService{c: c}
	c.Groups = &GroupService{c: c}
	c.Movies = &MovieService{c: c}
	return c, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Store returns the session store the client reads credentials from.
func (c *Client) Store() session.Store { return c.store }

// OnSessionExpired subscribes fn to session expiry events and returns a function that unsubscribes it.
func (c *Client) OnSessionExpired(fn SessionExpiredHandler) (unsubscribe func()) {
	return c.expiry.subscribe(fn)
}

// doJSON sends body (if any) as JSON and decodes the response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, query, reader, contentTypeJSON, out)
}

// doForm sends form as application/x-www-form-urlencoded.
func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	return c.do(ctx, method, path, nil, strings.NewReader(form.Encode()), contentTypeForm, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return fmt.Errorf("%w: %s %s: request canceled", shared.ErrAPIRequest, method, path)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w: %s %s: request timed out", shared.ErrAPIRequest, method, path)
		}
		return fmt.Errorf("%w: cannot reach %s: %w", shared.ErrAPIRequest, c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode:     resp.StatusCode,
			Method:         method,
			Path:           path,
			Detail:         parseDetail(data),
			Body:           data,
			SessionExpired: resp.StatusCode == http.StatusUnauthorized && ExpiresSession(path),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", shared.ErrInvalidResponse, method, path, err)
	}
	return nil
}
