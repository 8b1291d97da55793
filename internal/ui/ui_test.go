package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/mfx/internal/router"
	"github.com/desertthunder/mfx/internal/services"
	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
	tu "github.com/desertthunder/mfx/internal/testing"
)

func newTestModel(t *testing.T, token string) (*Model, *tu.RecordingServer, *session.MemoryStore) {
	t.Helper()

	srv := tu.NewRecordingServer(t)
	store := session.NewMemoryStore(token)
	logger := log.New(io.Discard)

	client, err := services.NewClient(services.Options{BaseURL: srv.URL, Store: store, Logger: logger})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	table, err := router.DefaultTable("")
	if err != nil {
		t.Fatalf("DefaultTable() error = %v", err)
	}
	nav := router.NewNavigator(table, store, logger)
	return NewModel(context.Background(), client, nav, logger), srv, store
}

// account registers the endpoints the dashboard and views read.
func account(srv *tu.RecordingServer) {
	srv.JSON(http.MethodGet, "/users/me", http.StatusOK, map[string]any{"user_id": 7, "name": "Ada", "friend_code": "ADA-7"})
	srv.JSON(http.MethodGet, "/users/7/groups", http.StatusOK, []map[string]any{
		{"group_id": 3, "name": "Friday", "admin_id": 7, "members": []map[string]any{{"user_id": 7}, {"user_id": 8}}},
	})
	srv.JSON(http.MethodGet, "/users/7/favourites", http.StatusOK, []map[string]any{{"id": 11, "title": "Heat"}})
	srv.JSON(http.MethodGet, "/movies/random", http.StatusOK, map[string]any{"id": 5, "title": "Alien"})
}

// pump runs cmd and feeds application messages back into the model until nothing is left to do.
func pump(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case Msg, SessionExpiredMsg:
		default:
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, k tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(k)
	pump(t, m, cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel(t *testing.T) {
	t.Run("Init Without Session Shows Login", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "")
		pump(t, m, m.Init())

		if m.Route().Path != router.LoginPath {
			t.Fatalf("expected /login, got %s", m.Route().Path)
		}
		if !strings.Contains(m.View(), "Log in") {
			t.Errorf("expected login form, got:\n%s", m.View())
		}
		if len(srv.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", srv.Sequence())
		}
	})

	t.Run("Init With Session Loads Dashboard", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		pump(t, m, m.Init())

		if m.Route().Path != router.DefaultLanding {
			t.Fatalf("expected landing route, got %s", m.Route().Path)
		}
		if m.summary == nil || m.summary.groups != 1 || m.summary.favorites != 1 {
			t.Fatalf("unexpected summary: %+v", m.summary)
		}
		view := m.View()
		if !strings.Contains(view, "Welcome, Ada") || !strings.Contains(view, "ADA-7") {
			t.Errorf("dashboard missing user details:\n%s", view)
		}
	})

	t.Run("Login Submits And Lands", func(t *testing.T) {
		m, srv, store := newTestModel(t, "")
		account(srv)
		srv.JSON(http.MethodPost, "/auth/token/", http.StatusOK, map[string]any{"access_token": "fresh", "token_type": "bearer"})
		pump(t, m, m.Init())

		m.form.inputs[0].SetValue("ada@example.com")
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m.form.inputs[1].SetValue("secret")
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if token, _ := store.Token(); token != "fresh" {
			t.Errorf("expected stored token, got %q", token)
		}
		if m.Route().Path != router.DefaultLanding {
			t.Errorf("expected landing after login, got %s", m.Route().Path)
		}

		calls := srv.Calls()
		if len(calls) == 0 || calls[0].Path != "/auth/token/" {
			t.Fatalf("expected login first, got %v", srv.Sequence())
		}
		if !strings.Contains(calls[0].Body, "email=ada%40example.com") {
			t.Errorf("unexpected form body %q", calls[0].Body)
		}
	})

	t.Run("Rejected Login Keeps Form", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "")
		srv.JSON(http.MethodPost, "/auth/token/", http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		pump(t, m, m.Init())

		m.form.inputs[0].SetValue("ada@example.com")
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m.form.inputs[1].SetValue("wrong")
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		// the host forwards the expiry event published for the 401
		pump(t, m, func() tea.Msg { return SessionExpiredMsg{Reason: "session expired"} })

		if m.Route().Path != router.LoginPath {
			t.Fatalf("expected /login, got %s", m.Route().Path)
		}
		if !errors.Is(m.err, shared.ErrBadCredentials) {
			t.Errorf("expected ErrBadCredentials, got %v", m.err)
		}
		if got := m.form.value(0); got != "ada@example.com" {
			t.Errorf("expected email to survive, got %q", got)
		}
		if strings.Contains(m.View(), "session has ended") {
			t.Error("a rejected login is not an ended session")
		}
	})

	t.Run("Incomplete Login Is Rejected Locally", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "")
		pump(t, m, m.Init())

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if !errors.Is(m.err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", m.err)
		}
		if len(srv.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", srv.Sequence())
		}
	})

	t.Run("Register Round Trip", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		pump(t, m, m.Init())

		press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
		if m.Route().Path != router.RegisterPath {
			t.Fatalf("expected /register, got %s", m.Route().Path)
		}
		if len(m.form.inputs) != 3 {
			t.Errorf("expected three register fields, got %d", len(m.form.inputs))
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.Route().Path != router.LoginPath {
			t.Errorf("expected /login, got %s", m.Route().Path)
		}
	})

	t.Run("Session Expired Message Forces Login", func(t *testing.T) {
		m, srv, store := newTestModel(t, "tok")
		account(srv)
		pump(t, m, m.Init())

		store.Clear()
		_, cmd := m.Update(SessionExpiredMsg{Reason: "session expired"})
		pump(t, m, cmd)

		if m.Route().Path != router.LoginPath {
			t.Fatalf("expected /login, got %s", m.Route().Path)
		}
		if m.summary != nil {
			t.Error("expected dashboard data to be dropped")
		}
		if !strings.Contains(m.View(), "session expired") {
			t.Errorf("expected expiry notice, got:\n%s", m.View())
		}
	})

	t.Run("Rejected Identity Returns To Login", func(t *testing.T) {
		m, srv, store := newTestModel(t, "stale")
		srv.JSON(http.MethodGet, "/users/me", http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		pump(t, m, m.Init())

		if m.Route().Path != router.LoginPath {
			t.Fatalf("expected /login, got %s", m.Route().Path)
		}
		if session.Present(store) {
			t.Error("expected credential to be cleared")
		}
	})

	t.Run("Tab Cycles Header Routes", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		pump(t, m, m.Init())

		want := []string{"/swipe", "/groups", "/favorites", "/settings", "/home"}
		for _, path := range want {
			press(t, m, tea.KeyMsg{Type: tea.KeyTab})
			if m.Route().Path != path {
				t.Fatalf("expected %s, got %s", path, m.Route().Path)
			}
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
		if m.Route().Path != "/settings" {
			t.Errorf("expected /settings, got %s", m.Route().Path)
		}
	})

	t.Run("Swipe Like Draws Next", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		srv.JSON(http.MethodPost, "/movies/5/right-swipe", http.StatusOK, map[string]any{})
		srv.JSON(http.MethodPost, "/movies/5/left-swipe", http.StatusOK, map[string]any{})
		pump(t, m, m.Init())
		pump(t, m, m.navigate("/swipe"))

		if m.movie == nil || m.movie.MovieID() != 5 {
			t.Fatalf("expected drawn movie 5, got %+v", m.movie)
		}
		if !strings.Contains(m.View(), "Alien") {
			t.Errorf("expected movie card, got:\n%s", m.View())
		}

		press(t, m, runes("l"))
		press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

		seq := srv.Sequence()
		if !slices.Contains(seq, "POST /movies/5/right-swipe") || !slices.Contains(seq, "POST /movies/5/left-swipe") {
			t.Errorf("expected both swipes, got %v", seq)
		}
		if m.movie == nil {
			t.Error("expected the next movie to be drawn")
		}
		if !strings.Contains(m.status, "Disliked Alien") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Favourite Keeps Movie", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		srv.JSON(http.MethodPost, "/movies/5/right-swipe", http.StatusOK, map[string]any{})
		pump(t, m, m.Init())
		pump(t, m, m.navigate("/swipe"))

		press(t, m, runes("f"))

		if m.movie == nil || m.movie.MovieID() != 5 {
			t.Errorf("expected movie to stay on screen, got %+v", m.movie)
		}
	})

	t.Run("Group Matches", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		srv.JSON(http.MethodGet, "/groups/3/matches", http.StatusOK, map[string]any{
			"group_members": 2,
			"matches": []map[string]any{
				{"group_id": 3, "count_likes": 1, "last_update": "", "movie": map[string]any{"id": 9, "title": "Rocky"}},
				{"group_id": 3, "count_likes": 2, "last_update": "", "movie": map[string]any{"id": 5, "title": "Alien"}},
			},
		})
		pump(t, m, m.Init())
		pump(t, m, m.navigate("/groups"))

		if len(m.groups.Items()) != 1 {
			t.Fatalf("expected one group, got %d", len(m.groups.Items()))
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.matches == nil || m.matches.groupID != 3 {
			t.Fatalf("expected matches for group 3, got %+v", m.matches)
		}

		view := m.View()
		if strings.Index(view, "Alien") > strings.Index(view, "Rocky") {
			t.Errorf("expected most liked first:\n%s", view)
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.matches != nil {
			t.Error("expected esc to return to the group list")
		}
	})

	t.Run("Remove Favourite Reloads", func(t *testing.T) {
		m, srv, _ := newTestModel(t, "tok")
		account(srv)
		srv.JSON(http.MethodDelete, "/users/7/favourites/11", http.StatusOK, map[string]any{})
		pump(t, m, m.Init())
		pump(t, m, m.navigate("/favorites"))

		press(t, m, runes("d"))

		seq := srv.Sequence()
		idx := slices.Index(seq, "DELETE /users/7/favourites/11")
		if idx < 0 {
			t.Fatalf("expected favourite removal, got %v", seq)
		}
		if !slices.Contains(seq[idx:], "GET /users/7/favourites") {
			t.Errorf("expected favourites to reload after removal, got %v", seq)
		}
	})

	t.Run("Settings Logout", func(t *testing.T) {
		m, srv, store := newTestModel(t, "tok")
		account(srv)
		pump(t, m, m.Init())
		pump(t, m, m.navigate("/settings"))

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if session.Present(store) {
			t.Error("expected credential to be cleared")
		}
		if m.Route().Path != router.LoginPath {
			t.Errorf("expected /login, got %s", m.Route().Path)
		}
		if m.status != "Logged out" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _, _ := newTestModel(t, "")
		pump(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
