package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

// SessionRepository persists [models.Session] rows.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves the session stored for origin.
//
// Returns an error wrapping [shared.ErrNotFound] when no credential is stored.
func (r *SessionRepository) Get(origin string) (*models.Session, error) {
	query := `
		SELECT origin, token, created_at, updated_at
		FROM sessions
		WHERE origin = ?
	`

	session, err := scanSession(r.db.QueryRow(query, origin))
	if err != nil {
		return nil, notFound(err, "session for "+origin)
	}
	return session, nil
}

// Save stores token for origin, replacing any previous credential.
func (r *SessionRepository) Save(origin, token string) error {
	if strings.TrimSpace(origin) == "" {
		return fmt.Errorf("%w: origin is required", shared.ErrInvalidInput)
	}
	if token == "" {
		return fmt.Errorf("%w: token is required", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO sessions (origin, token, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, origin, token, now, now); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the credential for origin. Deleting an absent session is not an error.
func (r *SessionRepository) Delete(origin string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE origin = ?", origin); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns every stored session ordered by most recent update.
func (r *SessionRepository) List() ([]models.Session, error) {
	rows, err := r.db.Query(`
		SELECT origin, token, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC, origin
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	if err := row.Scan(&s.Origin, &s.Token, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
