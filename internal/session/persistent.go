package session

import (
	"errors"
	"sync"

	"github.com/desertthunder/mfx/internal/repositories"
	"github.com/desertthunder/mfx/internal/shared"
)

// PersistentStore keeps the credential for one API origin in SQLite.
//
// Writes go through a mutex so concurrent SetToken and Clear calls resolve to
// whichever ran last.
type PersistentStore struct {
	mu     sync.Mutex
	origin string
	repo   *repositories.SessionRepository
}

// NewPersistentStore binds a store to the origin of baseURL.
func NewPersistentStore(repo *repositories.SessionRepository, baseURL string) (*PersistentStore, error) {
	origin, err := Origin(baseURL)
	if err != nil {
		return nil, err
	}
	return &PersistentStore{origin: origin, repo: repo}, nil
}

// Origin returns the key this store reads and writes.
func (p *PersistentStore) Origin() string { return p.origin }

func (p *PersistentStore) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.repo.Get(p.origin)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (p *PersistentStore) SetToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.Save(p.origin, token)
}

func (p *PersistentStore) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.Delete(p.origin)
}
