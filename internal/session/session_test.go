package session

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/mfx/internal/repositories"
	"github.com/desertthunder/mfx/internal/shared"
)

func newPersistent(t *testing.T, path, baseURL string) *PersistentStore {
	t.Helper()

	db, err := shared.OpenMigrated(shared.DatabaseConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewPersistentStore(repositories.NewSessionRepository(db), baseURL)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestOrigin(t *testing.T) {
	tt := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://API.example.com/v1/", want: "https://api.example.com"},
		{in: "http://localhost:8000", want: "http://localhost:8000"},
		{in: " http://127.0.0.1:9000/path?q=1 ", want: "http://127.0.0.1:9000"},
		{in: "/relative", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Origin(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Origin(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Origin(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	t.Run("Empty Store Is Absent", func(t *testing.T) {
		store := NewMemoryStore("")
		if Present(store) {
			t.Error("expected empty store to be absent")
		}
		if Present(nil) {
			t.Error("expected nil store to be absent")
		}
	})

	t.Run("Set And Clear", func(t *testing.T) {
		store := NewMemoryStore("")
		if err := store.SetToken("abc"); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}
		if !Present(store) {
			t.Error("expected credential to be present")
		}

		_ = store.Clear()
		if Present(store) {
			t.Error("expected credential to be cleared")
		}
	})

	t.Run("Rejects Empty Token", func(t *testing.T) {
		if err := NewMemoryStore("").SetToken(""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		store := NewMemoryStore("seed")
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() { defer wg.Done(); _ = store.SetToken("tok") }()
			go func() { defer wg.Done(); _, _ = store.Token() }()
		}
		wg.Wait()

		if got, _ := store.Token(); got != "tok" {
			t.Errorf("expected tok, got %q", got)
		}
	})
}

func TestPersistentStore(t *testing.T) {
	t.Run("Survives Reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mfx.db")

		first := newPersistent(t, path, "http://localhost:8000/api")
		if err := first.SetToken("kept"); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}

		second := newPersistent(t, path, "http://localhost:8000")
		got, err := second.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if got != "kept" {
			t.Errorf("expected kept, got %q", got)
		}
	})

	t.Run("Absent Credential", func(t *testing.T) {
		store := newPersistent(t, filepath.Join(t.TempDir(), "mfx.db"), "https://api.example.com")

		got, err := store.Token()
		if err != nil || got != "" {
			t.Errorf("expected empty token and nil error, got %q, %v", got, err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := newPersistent(t, filepath.Join(t.TempDir(), "mfx.db"), "https://api.example.com")

		_ = store.SetToken("abc")
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if Present(store) {
			t.Error("expected credential to be cleared")
		}
		if err := store.Clear(); err != nil {
			t.Errorf("clearing twice should succeed, got %v", err)
		}
	})

	t.Run("Origin Scoping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mfx.db")
		local := newPersistent(t, path, "http://localhost:8000")
		remote := newPersistent(t, path, "https://api.example.com")

		_ = local.SetToken("local")
		if Present(remote) {
			t.Error("a credential for one origin must not leak to another")
		}
	})

	t.Run("Invalid Base URL", func(t *testing.T) {
		if _, err := NewPersistentStore(nil, "not a url"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestInspect(t *testing.T) {
	t.Run("Decodes Registered Claims", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: jwt.NewNumericDate(exp),
		})
		signed, err := token.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		claims, err := Inspect(signed)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if claims.Subject != "user@example.com" {
			t.Errorf("expected subject user@example.com, got %q", claims.Subject)
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Equal(exp) {
			t.Errorf("expected expiry %v, got %v", exp, claims.ExpiresAt)
		}
		if claims.Expired(time.Now()) {
			t.Error("token should not be expired yet")
		}
		if !claims.Expired(exp.Add(time.Minute)) {
			t.Error("token should be expired after its expiry")
		}
	})

	t.Run("Opaque Token", func(t *testing.T) {
		if _, err := Inspect("opaque-token"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
