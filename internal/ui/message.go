package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mfx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

// SessionExpiredMsg tells the model the backend rejected the credential.
//
// The host sends it from the client's session-expired subscription.
type SessionExpiredMsg struct {
	Reason string
}

var (
	_ tea.Msg = Msg{}
	_ tea.Msg = SessionExpiredMsg{}
)

const (
	MsgSessionStarted MsgKind = iota
	MsgSummaryLoaded
	MsgMovieDrawn
	MsgSwiped
	MsgGroupsLoaded
	MsgMatchesLoaded
	MsgFavoritesLoaded
	MsgFavoriteRemoved
	MsgLoggedOut
)

// verdict is what the user did with a drawn movie.
type verdict int

const (
	liked verdict = iota
	disliked
	favorited
)

func (v verdict) String() string {
	switch v {
	case liked:
		return "Liked"
	case disliked:
		return "Disliked"
	default:
		return "Added to favourites:"
	}
}

type swipe struct {
	movie   models.MovieProfile
	verdict verdict
}

type groupMatches struct {
	groupID int
	query   *models.GroupMatchQuery
}

// summary is the home view's dashboard.
type summary struct {
	user      *models.User
	groups    int
	favorites int
}

// sessionStartedMsg is the constructor for [MsgSessionStarted]
func sessionStartedMsg(err error) Msg {
	return Msg{kind: MsgSessionStarted, err: err}
}

// summaryLoadedMsg is the constructor for [MsgSummaryLoaded]
func summaryLoadedMsg(s *summary, err error) Msg {
	return Msg{kind: MsgSummaryLoaded, data: s, err: err}
}

// movieDrawnMsg is the constructor for [MsgMovieDrawn]
func movieDrawnMsg(m *models.MovieProfile, err error) Msg {
	return Msg{kind: MsgMovieDrawn, data: m, err: err}
}

// swipedMsg is the constructor for [MsgSwiped]
func swipedMsg(s swipe, err error) Msg {
	return Msg{kind: MsgSwiped, data: s, err: err}
}

// groupsLoadedMsg is the constructor for [MsgGroupsLoaded]
func groupsLoadedMsg(groups []models.Group, err error) Msg {
	return Msg{kind: MsgGroupsLoaded, data: groups, err: err}
}

// matchesLoadedMsg is the constructor for [MsgMatchesLoaded]
func matchesLoadedMsg(m groupMatches, err error) Msg {
	return Msg{kind: MsgMatchesLoaded, data: m, err: err}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(movies []models.MovieProfile, err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: movies, err: err}
}

// favoriteRemovedMsg is the constructor for [MsgFavoriteRemoved]
func favoriteRemovedMsg(id int, err error) Msg {
	return Msg{kind: MsgFavoriteRemoved, data: id, err: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, err: err}
}
