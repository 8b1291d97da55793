package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/router"
	"github.com/desertthunder/mfx/internal/services"
	"github.com/desertthunder/mfx/internal/shared"
)

// Model represents the TUI application state.
//
// The current view is always the route the [router.Navigator] committed last.
type Model struct {
	ctx    context.Context
	client *services.Client
	nav    *router.Navigator
	logger *log.Logger

	route  router.Route
	width  int
	height int

	form      form
	summary   *summary
	movie     *models.MovieProfile
	groups    list.Model
	matches   *groupMatches
	favorites list.Model

	loading bool
	status  string
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client *services.Client, nav *router.Navigator, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{
		ctx:       ctx,
		client:    client,
		nav:       nav,
		logger:    logger,
		groups:    newList("Groups", nil, 0, 0),
		favorites: newList("Favourites", nil, 0, 0),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init resolves "/" so the guard picks login or the landing view.
func (m *Model) Init() tea.Cmd {
	return m.navigate("/")
}

// Route returns the route being displayed.
func (m *Model) Route() router.Route { return m.route }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.groups.SetSize(msg.Width-4, msg.Height-8)
		m.favorites.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case SessionExpiredMsg:
		return m, m.forceLogin(msg.Reason)

	case Msg:
		return m, m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.handleKeys(msg)
	}

	return m, m.updateInputs(msg)
}

// navigate commits path through the navigator and prepares the resulting view.
func (m *Model) navigate(path string) tea.Cmd {
	out, err := m.nav.Navigate(path)
	if err != nil {
		m.err = err
		return nil
	}
	return m.apply(out)
}

func (m *Model) forceLogin(reason string) tea.Cmd {
	if m.route.Path == m.nav.Table().Login() {
		// A rejected login also expires the session; keep the form as typed.
		return nil
	}
	if reason == "" {
		reason = "session expired"
	}
	out, err := m.nav.ForceLogin(reason)
	if err != nil {
		m.err = err
		return nil
	}
	cmd := m.apply(out)
	m.status = "Your session has ended (" + reason + "). Please log in again."
	return cmd
}

func (m *Model) apply(out router.Outcome) tea.Cmd {
	m.route = out.Route
	m.err = nil
	m.status = ""
	m.loading = false

	switch out.Route.View {
	case router.ViewLogin:
		m.resetSession()
		m.form = newLoginForm()
	case router.ViewRegister:
		m.form = newRegisterForm()
	case router.ViewHome:
		m.loading = true
		return m.loadSummary()
	case router.ViewSwipe:
		if m.movie == nil {
			m.loading = true
			return m.drawMovie()
		}
	case router.ViewGroups:
		m.matches = nil
		m.loading = true
		return m.loadGroups()
	case router.ViewFavorites:
		m.loading = true
		return m.loadFavorites()
	}
	return nil
}

// resetSession drops data loaded for the previous user.
func (m *Model) resetSession() {
	m.summary = nil
	m.movie = nil
	m.matches = nil
	m.groups.SetItems(nil)
	m.favorites.SetItems(nil)
}

// fail records err, sending the user to login when it means the session is gone.
func (m *Model) fail(err error) tea.Cmd {
	m.loading = false
	if errors.Is(err, shared.ErrSessionExpired) {
		return m.forceLogin("session expired")
	}
	m.logger.Debug("request failed", "view", m.route.View, "error", err)
	m.err = err
	return nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	if msg.err != nil && msg.kind == MsgSessionStarted && errors.Is(msg.err, shared.ErrBadCredentials) {
		m.loading = false
		m.err = shared.ErrBadCredentials
		return nil
	}
	if msg.err != nil && msg.kind != MsgLoggedOut {
		return m.fail(msg.err)
	}

	switch msg.kind {
	case MsgSessionStarted:
		return m.navigate(m.nav.Table().Login())

	case MsgSummaryLoaded:
		m.loading = false
		m.summary = msg.data.(*summary)

	case MsgMovieDrawn:
		m.loading = false
		m.movie = msg.data.(*models.MovieProfile)

	case MsgSwiped:
		s := msg.data.(swipe)
		m.status = fmt.Sprintf("%s %s", s.verdict, s.movie.DisplayTitle())
		if s.verdict == favorited {
			return nil
		}
		m.movie = nil
		m.loading = true
		return m.drawMovie()

	case MsgGroupsLoaded:
		m.loading = false
		groups := msg.data.([]models.Group)
		items := make([]list.Item, len(groups))
		for i, g := range groups {
			items[i] = groupItem{group: g}
		}
		m.groups.SetItems(items)

	case MsgMatchesLoaded:
		m.loading = false
		gm := msg.data.(groupMatches)
		m.matches = &gm

	case MsgFavoritesLoaded:
		m.loading = false
		movies := msg.data.([]models.MovieProfile)
		items := make([]list.Item, len(movies))
		for i, mv := range movies {
			items[i] = movieItem{movie: mv}
		}
		m.favorites.SetItems(items)

	case MsgFavoriteRemoved:
		m.status = fmt.Sprintf("Removed movie %d from favourites", msg.data.(int))
		m.loading = true
		return m.loadFavorites()

	case MsgLoggedOut:
		if msg.err != nil {
			m.logger.Warn("logout did not complete cleanly", "error", msg.err)
		}
		cmd := m.navigate(m.nav.Table().Login())
		m.status = "Logged out"
		return cmd
	}
	return nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) tea.Cmd {
	switch m.route.View {
	case router.ViewLogin:
		return m.handleLoginKeys(msg)
	case router.ViewRegister:
		return m.handleRegisterKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.next):
		return m.cycle(1)
	case key.Matches(msg, m.keys.prev):
		return m.cycle(-1)
	}

	switch m.route.View {
	case router.ViewHome:
		if key.Matches(msg, m.keys.refresh) {
			m.loading = true
			return m.loadSummary()
		}
	case router.ViewSwipe:
		return m.handleSwipeKeys(msg)
	case router.ViewGroups:
		return m.handleGroupKeys(msg)
	case router.ViewFavorites:
		return m.handleFavoriteKeys(msg)
	case router.ViewSettings:
		if key.Matches(msg, m.keys.logout) {
			return m.logout()
		}
	}
	return nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.register):
		return m.navigate(router.RegisterPath)
	case msg.String() == "tab" || msg.String() == "down":
		m.form.move(1)
		return nil
	case msg.String() == "shift+tab" || msg.String() == "up":
		m.form.move(-1)
		return nil
	case msg.String() == "enter":
		if !m.form.last() {
			m.form.move(1)
			return nil
		}
		if !m.form.complete() {
			m.err = fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
			return nil
		}
		m.loading = true
		m.err = nil
		return m.login(m.form.value(0), m.form.value(1))
	}
	return m.form.update(msg)
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.back):
		return m.navigate(router.LoginPath)
	case msg.String() == "tab" || msg.String() == "down":
		m.form.move(1)
		return nil
	case msg.String() == "shift+tab" || msg.String() == "up":
		m.form.move(-1)
		return nil
	case msg.String() == "enter":
		if !m.form.last() {
			m.form.move(1)
			return nil
		}
		if !m.form.complete() {
			m.err = fmt.Errorf("%w: name, email and password are required", shared.ErrMissingArgument)
			return nil
		}
		m.loading = true
		m.err = nil
		return m.register(models.RegisterRequest{
			Name:     m.form.value(0),
			Email:    m.form.value(1),
			Password: m.form.value(2),
		})
	}
	return m.form.update(msg)
}

func (m *Model) handleSwipeKeys(msg tea.KeyMsg) tea.Cmd {
	if m.movie == nil || m.loading {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.like):
		return m.swipe(*m.movie, liked)
	case key.Matches(msg, m.keys.dislike):
		return m.swipe(*m.movie, disliked)
	case key.Matches(msg, m.keys.favorite):
		return m.swipe(*m.movie, favorited)
	}
	return nil
}

func (m *Model) handleGroupKeys(msg tea.KeyMsg) tea.Cmd {
	if m.matches != nil {
		if key.Matches(msg, m.keys.back) {
			m.matches = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.groups.SelectedItem().(groupItem); ok {
			m.loading = true
			return m.loadMatches(item.group.ID())
		}
		return nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m.loadGroups()
	}

	var cmd tea.Cmd
	m.groups, cmd = m.groups.Update(msg)
	return cmd
}

func (m *Model) handleFavoriteKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.favorites.SelectedItem().(movieItem); ok {
			return m.removeFavorite(item.movie.MovieID())
		}
		return nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m.loadFavorites()
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return cmd
}

// headerRoutes returns the routes shown in the tab bar, in table order.
func (m *Model) headerRoutes() []router.Route {
	var routes []router.Route
	for _, r := range m.nav.Table().Routes() {
		if r.Meta.ShowHeader && !r.IsRedirect() {
			routes = append(routes, r)
		}
	}
	return routes
}

// cycle moves delta tabs along the header routes.
func (m *Model) cycle(delta int) tea.Cmd {
	routes := m.headerRoutes()
	if len(routes) == 0 {
		return nil
	}
	idx := 0
	for i, r := range routes {
		if r.Path == m.route.Path {
			idx = i
			break
		}
	}
	next := routes[(idx+delta+len(routes))%len(routes)]
	return m.navigate(next.Path)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	switch m.route.View {
	case router.ViewLogin, router.ViewRegister:
		return m.form.update(msg)
	case router.ViewGroups:
		var cmd tea.Cmd
		m.groups, cmd = m.groups.Update(msg)
		return cmd
	case router.ViewFavorites:
		var cmd tea.Cmd
		m.favorites, cmd = m.favorites.Update(msg)
		return cmd
	}
	return nil
}
