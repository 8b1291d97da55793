package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
)

// Interceptor wraps a [http.RoundTripper] with extra behavior.
type Interceptor func(next http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to [http.RoundTripper].
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain wraps base with interceptors so the first one sees the request first.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		wrapped = interceptors[i](wrapped)
	}
	return wrapped
}

// ExpiresSession reports whether a 401 on path means the credential itself is no longer valid.
func ExpiresSession(path string) bool {
	return strings.Contains(path, "/auth/token") || strings.Contains(path, "/users/me")
}

// WithBearer attaches the stored credential, read at send time, to every request.
//
// Requests sent while no credential is stored carry no Authorization header.
func WithBearer(store session.Store) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			token, err := store.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to read session: %w", err)
			}

			out := req.Clone(req.Context())
			if token == "" {
				out.Header.Del("Authorization")
			} else {
				(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
			}
			return next.RoundTrip(out)
		})
	}
}

// WithExpiry clears store and calls publish when an identity endpoint answers 401.
func WithExpiry(store session.Store, logger *log.Logger, publish func(SessionExpired)) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized || !ExpiresSession(req.URL.Path) {
				return resp, err
			}

			if clearErr := store.Clear(); clearErr != nil {
				logger.Error("failed to clear session", "error", clearErr)
			}
			logger.Warn("session expired", "method", req.Method, "path", req.URL.Path)

			publish(SessionExpired{
				Method: req.Method,
				Path:   req.URL.Path,
				Status: resp.StatusCode,
				At:     time.Now(),
			})
			return resp, nil
		})
	}
}

// WithLogging tags each request with an X-Request-ID and logs it at debug level.
func WithLogging(logger *log.Logger) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := shared.GenerateID()
			out := req.Clone(req.Context())
			out.Header.Set("X-Request-ID", id)

			l := shared.WithLogger(logger,
				"id", id,
				"method", out.Method,
				"path", out.URL.Path,
				"auth", out.Header.Get("Authorization") != "",
			)

			start := time.Now()
			resp, err := next.RoundTrip(out)
			if err != nil {
				l.Debug("api request failed", "elapsed", time.Since(start), "error", err)
				return nil, err
			}

			l.Debug("api request", "status", resp.StatusCode, "elapsed", time.Since(start))
			return resp, nil
		})
	}
}

// WithRateLimit paces requests to rps with a burst of one.
func WithRateLimit(rps float64) Interceptor {
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
			return next.RoundTrip(req)
		})
	}
}
