package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/router"
)

// View renders the UI based on the current route.
func (m *Model) View() string {
	var b strings.Builder

	if m.route.Meta.ShowHeader {
		b.WriteString(m.renderHeader())
		b.WriteString("\n\n")
	}

	switch m.route.View {
	case router.ViewLogin:
		b.WriteString(m.renderLogin())
	case router.ViewRegister:
		b.WriteString(m.renderRegister())
	case router.ViewHome:
		b.WriteString(m.renderHome())
	case router.ViewSwipe:
		b.WriteString(m.renderSwipe())
	case router.ViewGroups:
		b.WriteString(m.renderGroups())
	case router.ViewFavorites:
		b.WriteString(m.renderFavorites())
	case router.ViewSettings:
		b.WriteString(m.renderSettings())
	}

	if m.loading {
		b.WriteString("\n\n" + styles.help.Render("Loading…"))
	}
	if m.status != "" {
		b.WriteString("\n\n" + styles.ok.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	var tabs []string
	for _, r := range m.headerRoutes() {
		if r.Path == m.route.Path {
			tabs = append(tabs, styles.active.Render(r.Title()))
		} else {
			tabs = append(tabs, styles.tab.Render(r.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) helpView(bindings ...key.Binding) string {
	return m.help.ShortHelpView(bindings)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("MovieFinder • Log in")
	help := m.helpView(m.keys.enter, m.keys.register, key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.form.view(), help)
}

func (m *Model) renderRegister() string {
	title := styles.title.Render("MovieFinder • Create account")
	help := m.helpView(m.keys.enter, m.keys.back)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.form.view(), help)
}

func (m *Model) renderHome() string {
	if m.summary == nil {
		return styles.title.Render("Home")
	}

	user := m.summary.user
	title := styles.title.Render("Welcome, " + user.DisplayName())
	code := "-"
	if user.FriendCode != nil {
		code = *user.FriendCode
	}
	info := fmt.Sprintf("Friend code: %s\nGroups:      %d\nFavourites:  %d", code, m.summary.groups, m.summary.favorites)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.helpView(m.keys.refresh, m.keys.next, m.keys.quit))
}

func (m *Model) renderSwipe() string {
	help := m.helpView(m.keys.like, m.keys.dislike, m.keys.favorite, m.keys.next, m.keys.quit)
	if m.movie == nil {
		return fmt.Sprintf("%s\n\n%s", styles.title.Render("Swipe"), help)
	}
	card := styles.poster.Render(strings.TrimSpace(string(movieCard(*m.movie))))
	return fmt.Sprintf("%s\n\n%s", card, help)
}

func movieCard(mv models.MovieProfile) []byte {
	out, err := formatter.MovieDetail(mv, formatter.FormatText)
	if err != nil {
		return []byte(mv.DisplayTitle())
	}
	return out
}

func (m *Model) renderGroups() string {
	if m.matches == nil {
		help := m.helpView(m.keys.enter, m.keys.refresh, m.keys.next, m.keys.quit)
		return fmt.Sprintf("%s\n\n%s", m.groups.View(), help)
	}

	q := m.matches.query
	title := styles.title.Render(fmt.Sprintf("Matches for group #%d", m.matches.groupID))
	if q == nil || len(q.Matches) == 0 {
		return fmt.Sprintf("%s\nNo matches yet.\n\n%s", title, m.helpView(m.keys.back))
	}

	matches := append([]models.GroupMatch(nil), q.Matches...)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CountLikes > matches[j].CountLikes })

	var b strings.Builder
	for _, match := range matches {
		line := fmt.Sprintf("%d/%d  %s", match.CountLikes, q.GroupMembers, match.Movie.DisplayTitle())
		if match.CountLikes == q.GroupMembers {
			line = styles.ok.Render(line + "  ★")
		}
		b.WriteString(line + "\n")
	}
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), m.helpView(m.keys.back))
}

func (m *Model) renderFavorites() string {
	help := m.helpView(m.keys.remove, m.keys.refresh, m.keys.next, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s", m.favorites.View(), help)
}

func (m *Model) renderSettings() string {
	title := styles.title.Render("Settings")
	info := fmt.Sprintf("API: %s\nLanding view: %s", m.client.BaseURL(), m.nav.Table().Landing())
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.helpView(m.keys.logout, m.keys.next, m.keys.quit))
}
