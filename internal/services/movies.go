package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

// MovieService wraps the movie, swipe and favourite endpoints.
type MovieService struct {
	c *Client
}

// Search finds movies by keyword.
func (s *MovieService) Search(ctx context.Context, keywords string) ([]models.MovieProfile, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, fmt.Errorf("%w: search keywords", shared.ErrMissingArgument)
	}

	var movies []models.MovieProfile
	q := url.Values{"keywords": {keywords}}
	if err := s.c.doJSON(ctx, http.MethodGet, "/movies/search", q, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) Get(ctx context.Context, id int) (*models.MovieProfile, error) {
	var movie models.MovieProfile
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/movies/%d", id), nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Random returns the next swipe candidate.
func (s *MovieService) Random(ctx context.Context) (*models.MovieProfile, error) {
	var movie models.MovieProfile
	if err := s.c.doJSON(ctx, http.MethodGet, "/movies/random", nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *MovieService) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.c.doJSON(ctx, http.MethodGet, "/movies/genres", nil, nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

func (s *MovieService) WatchProviders(ctx context.Context) ([]models.WatchProvider, error) {
	return s.providers(ctx, "/movies/watch-providers")
}

func (s *MovieService) PopularWatchProviders(ctx context.Context) ([]models.WatchProvider, error) {
	return s.providers(ctx, "/movies/watch-providers/popular")
}

func (s *MovieService) providers(ctx context.Context, path string) ([]models.WatchProvider, error) {
	var providers []models.WatchProvider
	if err := s.c.doJSON(ctx, http.MethodGet, path, nil, nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Like records a right swipe. The backend keeps it; there is no undo.
func (s *MovieService) Like(ctx context.Context, id int) error {
	return s.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/movies/%d/right-swipe", id), nil, nil, nil)
}

// Dislike records a left swipe.
func (s *MovieService) Dislike(ctx context.Context, id int) error {
	return s.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/movies/%d/left-swipe", id), nil, nil, nil)
}

// AddFavorite is a right swipe: favourites are the caller's liked movies.
func (s *MovieService) AddFavorite(ctx context.Context, id int) error {
	return s.Like(ctx, id)
}

// RemoveFavorite deletes a favourite: GET /users/me, then DELETE /users/{id}/favourites/{movie}.
func (s *MovieService) RemoveFavorite(ctx context.Context, id int) error {
	userID, err := s.c.Auth.userID(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/users/%d/favourites/%d", userID, id)
	if err := s.c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("remove favourite %d for user %d: %w", id, userID, err)
	}
	return nil
}

// Favorites lists the caller's favourites: GET /users/me, then GET /users/{id}/favourites.
func (s *MovieService) Favorites(ctx context.Context) ([]models.MovieProfile, error) {
	userID, err := s.c.Auth.userID(ctx)
	if err != nil {
		return nil, err
	}

	var movies []models.MovieProfile
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/favourites", userID), nil, nil, &movies); err != nil {
		return nil, fmt.Errorf("list favourites for user %d: %w", userID, err)
	}
	return movies, nil
}
