package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	swipePath     = "/swipe"
	favoritesPath = "/favorites"
)

// MoviesSearch searches the catalogue with the remaining arguments as keywords.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	keywords := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if keywords == "" {
		return fmt.Errorf("%w: <keywords>", shared.ErrMissingArgument)
	}

	movies, err := r.client.Movies.Search(ctx, keywords)
	if err != nil {
		return err
	}
	return r.emit(cmd, movies, formatter.MoviesTable(fmt.Sprintf("Results for %q", keywords), movies))
}

// MoviesShow prints one movie, optionally opening or saving its poster.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	movie, err := r.client.Movies.Get(ctx, id)
	if err != nil {
		return err
	}

	if path := cmd.String("save-poster"); path != "" {
		if err := formatter.SavePoster(*movie, path); err != nil {
			return err
		}
		r.logger.Info("poster saved", "path", path)
	}
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(movie.PosterURL()); err != nil {
			r.logger.Warn("failed to open poster", "error", err)
		}
	}
	return r.emitMovie(cmd, movie)
}

// MoviesRandom draws the next movie to swipe on.
func (r *Runner) MoviesRandom(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(swipePath); err != nil {
		return err
	}

	movie, err := r.client.Movies.Random(ctx)
	if err != nil {
		return err
	}
	return r.emitMovie(cmd, movie)
}

// MoviesGenres lists genres.
func (r *Runner) MoviesGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.client.Movies.Genres(ctx)
	if err != nil {
		return err
	}
	return r.emit(cmd, genres, formatter.GenresTable(genres))
}

// MoviesProviders lists watch providers.
func (r *Runner) MoviesProviders(ctx context.Context, cmd *cli.Command) error {
	var (
		providers []models.WatchProvider
		err       error
		title     = "Watch providers"
	)
	if cmd.Bool("popular") {
		title = "Popular watch providers"
		providers, err = r.client.Movies.PopularWatchProviders(ctx)
	} else {
		providers, err = r.client.Movies.WatchProviders(ctx)
	}
	if err != nil {
		return err
	}
	return r.emit(cmd, providers, formatter.ProvidersTable(title, providers))
}

// MoviesLike swipes right.
func (r *Runner) MoviesLike(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(swipePath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Movies.Like(ctx, id); err != nil {
		return err
	}
	return r.writePlain("👍 Liked movie %d\n", id)
}

// MoviesDislike swipes left.
func (r *Runner) MoviesDislike(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(swipePath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Movies.Dislike(ctx, id); err != nil {
		return err
	}
	return r.writePlain("👎 Disliked movie %d\n", id)
}

// FavoritesList prints the caller's favourites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(favoritesPath); err != nil {
		return err
	}

	movies, err := r.client.Movies.Favorites(ctx)
	if err != nil {
		return err
	}
	return r.emit(cmd, movies, formatter.MoviesTable("Favourites", movies))
}

// FavoritesAdd marks a movie as a favourite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(favoritesPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Movies.AddFavorite(ctx, id); err != nil {
		return err
	}
	return r.writePlain("★ Added movie %d to favourites\n", id)
}

// FavoritesRemove drops a movie from the caller's favourites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(favoritesPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Movies.RemoveFavorite(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed movie %d from favourites\n", id)
}

func (r *Runner) emitMovie(cmd *cli.Command, movie *models.MovieProfile) error {
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(movie, cmd.Bool("pretty"))
	case cmd.Bool("yaml"):
		return r.writeYAML(movie)
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	out, err := formatter.MovieDetail(*movie, f)
	if err != nil {
		return err
	}
	return r.writePlain("%s", out)
}
