package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mfx/internal/models"
)

var (
	_ list.Item = groupItem{}
	_ list.Item = movieItem{}
)

// groupItem wraps [models.Group] to implement [list.Item].
type groupItem struct {
	group models.Group
}

func (i groupItem) FilterValue() string { return i.group.DisplayName() }
func (i groupItem) Title() string       { return i.group.DisplayName() }
func (i groupItem) Description() string {
	return fmt.Sprintf("#%d • %d members", i.group.ID(), len(i.group.Members))
}

// movieItem wraps [models.MovieProfile] to implement [list.Item].
type movieItem struct {
	movie models.MovieProfile
}

func (i movieItem) FilterValue() string { return i.movie.DisplayTitle() }
func (i movieItem) Title() string       { return i.movie.DisplayTitle() }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("#%d", i.movie.MovieID())
	if y := i.movie.Year(); y != "" {
		desc = fmt.Sprintf("%s • %s", desc, y)
	}
	if g := i.movie.GenreNames(); g != "" {
		desc = fmt.Sprintf("%s • %s", desc, g)
	}
	return desc
}

func newList(title string, items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}
