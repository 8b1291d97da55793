package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// overview is the account summary shown by `mfx overview`.
type overview struct {
	User      *models.User          `json:"user"`
	Groups    []models.Group        `json:"groups"`
	Favorites []models.MovieProfile `json:"favorites"`
}

// loadOverview fetches identity, groups and favourites concurrently.
//
// Groups and favourites each resolve identity themselves, so the three requests are independent.
func (r *Runner) loadOverview(ctx context.Context) (*overview, error) {
	var ov overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := r.client.Auth.Me(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		ov.User = user
		return nil
	})
	g.Go(func() error {
		groups, err := r.client.Groups.List(ctx)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		ov.Groups = groups
		return nil
	})
	g.Go(func() error {
		favorites, err := r.client.Movies.Favorites(ctx)
		if err != nil {
			return fmt.Errorf("load favourites: %w", err)
		}
		ov.Favorites = favorites
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

// Overview prints the signed-in user with their groups and favourites.
func (r *Runner) Overview(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(r.navigator.Table().Landing()); err != nil {
		return err
	}

	ov, err := r.loadOverview(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") || cmd.Bool("yaml") {
		return r.emit(cmd, ov, formatter.Table{})
	}

	r.writePlainHeader(fmt.Sprintf("%s (friend code %s)", ov.User.DisplayName(), deref(ov.User.FriendCode)))
	summary := formatter.Table{
		Headers: []string{"Groups", "Favourites"},
		Rows:    [][]string{{strconv.Itoa(len(ov.Groups)), strconv.Itoa(len(ov.Favorites))}},
	}
	for _, tbl := range []formatter.Table{
		summary,
		formatter.GroupsTable(ov.Groups),
		formatter.MoviesTable("Favourites", ov.Favorites),
	} {
		if err := r.emit(cmd, nil, tbl); err != nil {
			return err
		}
	}
	return nil
}
