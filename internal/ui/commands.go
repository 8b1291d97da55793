package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mfx/internal/models"
	"golang.org/x/sync/errgroup"
)

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Auth.Login(m.ctx, email, password)
		if err != nil {
			return sessionStartedMsg(err)
		}
		return sessionStartedMsg(m.client.Store().SetToken(token.AccessToken))
	}
}

func (m *Model) register(req models.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.Auth.Register(m.ctx, req); err != nil {
			return sessionStartedMsg(err)
		}
		token, err := m.client.Auth.Login(m.ctx, req.Email, req.Password)
		if err != nil {
			return sessionStartedMsg(err)
		}
		return sessionStartedMsg(m.client.Store().SetToken(token.AccessToken))
	}
}

// loadSummary fetches the dashboard concurrently.
func (m *Model) loadSummary() tea.Cmd {
	return func() tea.Msg {
		var s summary
		g, ctx := errgroup.WithContext(m.ctx)

		g.Go(func() error {
			user, err := m.client.Auth.Me(ctx)
			s.user = user
			return err
		})
		g.Go(func() error {
			groups, err := m.client.Groups.List(ctx)
			s.groups = len(groups)
			return err
		})
		g.Go(func() error {
			favorites, err := m.client.Movies.Favorites(ctx)
			s.favorites = len(favorites)
			return err
		})

		if err := g.Wait(); err != nil {
			return summaryLoadedMsg(nil, err)
		}
		return summaryLoadedMsg(&s, nil)
	}
}

func (m *Model) drawMovie() tea.Cmd {
	return func() tea.Msg {
		movie, err := m.client.Movies.Random(m.ctx)
		return movieDrawnMsg(movie, err)
	}
}

func (m *Model) swipe(movie models.MovieProfile, v verdict) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch v {
		case liked:
			err = m.client.Movies.Like(m.ctx, movie.MovieID())
		case disliked:
			err = m.client.Movies.Dislike(m.ctx, movie.MovieID())
		case favorited:
			err = m.client.Movies.AddFavorite(m.ctx, movie.MovieID())
		}
		return swipedMsg(swipe{movie: movie, verdict: v}, err)
	}
}

func (m *Model) loadGroups() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.client.Groups.List(m.ctx)
		return groupsLoadedMsg(groups, err)
	}
}

func (m *Model) loadMatches(groupID int) tea.Cmd {
	return func() tea.Msg {
		q, err := m.client.Groups.Matches(m.ctx, groupID)
		return matchesLoadedMsg(groupMatches{groupID: groupID, query: q}, err)
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.client.Movies.Favorites(m.ctx)
		return favoritesLoadedMsg(movies, err)
	}
}

func (m *Model) removeFavorite(id int) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Movies.RemoveFavorite(m.ctx, id); err != nil {
			return favoriteRemovedMsg(id, fmt.Errorf("remove favourite: %w", err))
		}
		return favoriteRemovedMsg(id, nil)
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.client.Auth.Logout(m.ctx))
	}
}
