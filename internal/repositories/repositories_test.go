package repositories

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mfx/internal/shared"
)

// setupTestDB creates a file-backed SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenMigrated(shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "mfx.db")})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Save And Get", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save("http://localhost:8000", "tok-1"); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		session, err := repo.Get("http://localhost:8000")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if session.Token != "tok-1" {
			t.Errorf("expected token tok-1, got %s", session.Token)
		}
		if session.CreatedAt.IsZero() || session.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("Save Replaces Token", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_ = repo.Save("http://localhost:8000", "old")
		if err := repo.Save("http://localhost:8000", "new"); err != nil {
			t.Fatalf("failed to replace session: %v", err)
		}

		session, err := repo.Get("http://localhost:8000")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if session.Token != "new" {
			t.Errorf("expected token new, got %s", session.Token)
		}

		sessions, _ := repo.List()
		if len(sessions) != 1 {
			t.Errorf("expected a single row per origin, got %d", len(sessions))
		}
	})

	t.Run("Origins Are Independent", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_ = repo.Save("http://localhost:8000", "local")
		_ = repo.Save("https://api.example.com", "remote")

		if err := repo.Delete("http://localhost:8000"); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}

		if _, err := repo.Get("http://localhost:8000"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		remote, err := repo.Get("https://api.example.com")
		if err != nil || remote.Token != "remote" {
			t.Errorf("expected remote session to survive, got %v, %v", remote, err)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if _, err := repo.Get("http://nowhere"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete Missing", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Delete("http://nowhere"); err != nil {
			t.Errorf("deleting an absent session should succeed, got %v", err)
		}
	})

	t.Run("Save Validation", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save("", "tok"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty origin, got %v", err)
		}
		if err := repo.Save("http://localhost", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty token, got %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)
		db.Close()

		if err := repo.Save("http://localhost", "tok"); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
