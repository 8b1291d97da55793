package session

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/mfx/internal/shared"
)

// Store reads and writes the session credential.
//
// Token returns "" with a nil error when no credential is present.
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// Present reports whether s currently holds a non-empty credential.
//
// A read error counts as absent.
func Present(s Store) bool {
	if s == nil {
		return false
	}
	token, err := s.Token()
	return err == nil && token != ""
}

// Origin reduces a base URL to scheme://host[:port], the key credentials are stored under.
func Origin(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", shared.ErrInvalidArgument, baseURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store seeded with token, which may be empty.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
