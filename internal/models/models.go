package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// PosterBaseURL is the TMDB image host used to render poster and backdrop paths.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieProfile is the full movie record returned by the movie endpoints.
type MovieProfile struct {
	ID             *int            `json:"id"`
	Title          *string         `json:"title"`
	Overview       *string         `json:"overview"`
	Genres         []Genre         `json:"genres"`
	ReleaseDate    *string         `json:"release_date"`
	VoteAverage    *float64        `json:"vote_average"`
	VoteCount      *int            `json:"vote_count"`
	Runtime        *int            `json:"runtime"`
	Tagline        *string         `json:"tagline"`
	Keywords       []string        `json:"keywords"`
	PosterPath     *string         `json:"poster_path"`
	BackdropPath   *string         `json:"backdrop_path"`
	ImagesPath     []string        `json:"images_path"`
	WatchProviders json.RawMessage `json:"watch_providers"`
}

// MovieID returns the movie id or 0 when the backend sent none.
func (m MovieProfile) MovieID() int {
	if m.ID == nil {
		return 0
	}
	return *m.ID
}

// DisplayTitle returns the title, falling back to "Untitled".
func (m MovieProfile) DisplayTitle() string {
	if m.Title == nil || strings.TrimSpace(*m.Title) == "" {
		return "Untitled"
	}
	return *m.Title
}

// Year returns the release year parsed from release_date (YYYY-MM-DD), or "".
func (m MovieProfile) Year() string {
	if m.ReleaseDate == nil || len(*m.ReleaseDate) < 4 {
		return ""
	}
	return (*m.ReleaseDate)[:4]
}

// GenreNames joins the genre names with ", ".
func (m MovieProfile) GenreNames() string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// PosterURL returns the absolute poster URL or "" when no poster is known.
func (m MovieProfile) PosterURL() string {
	if m.PosterPath == nil || *m.PosterPath == "" {
		return ""
	}
	return PosterBaseURL + *m.PosterPath
}

// GroupMatch is a movie matched within a group.
type GroupMatch struct {
	GroupID    int          `json:"group_id"`
	CountLikes int          `json:"count_likes"`
	LastUpdate string       `json:"last_update"`
	Movie      MovieProfile `json:"movie"`
}

// GroupMatchQuery is the payload of GET /groups/{id}/matches.
type GroupMatchQuery struct {
	GroupMembers int          `json:"group_members"`
	Matches      []GroupMatch `json:"matches"`
}

// WatchProvider is a streaming provider as listed by /movies/watch-providers.
type WatchProvider struct {
	ProviderID      int     `json:"provider_id"`
	ProviderName    string  `json:"provider_name"`
	LogoPath        *string `json:"logo_path"`
	DisplayPriority *int    `json:"display_priority"`
}

// User is the identity record returned by /users/me and /users/.
type User struct {
	UserID     int     `json:"user_id"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	FriendCode *string `json:"friend_code"`
}

// DisplayName returns the user's name, then email, then "user #id".
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return "user #" + strconv.Itoa(u.UserID)
}

// GroupMember is a member entry embedded in a [Group].
type GroupMember struct {
	UserID int     `json:"user_id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
}

// Group is a swipe group.
type Group struct {
	GroupID *int          `json:"group_id"`
	Name    *string       `json:"name"`
	AdminID *int          `json:"admin_id"`
	Members []GroupMember `json:"members"`
}

// ID returns the group id or 0.
func (g Group) ID() int {
	if g.GroupID == nil {
		return 0
	}
	return *g.GroupID
}

// DisplayName returns the group name, falling back to "group #id".
func (g Group) DisplayName() string {
	if g.Name != nil && *g.Name != "" {
		return *g.Name
	}
	return "group #" + strconv.Itoa(g.ID())
}

// RegisterRequest is the body of POST /users/.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// GroupUpdate is the body of PATCH /groups/{id}.
//
// A nil or zero AdminID means "keep the current administrator".
type GroupUpdate struct {
	Name    string `json:"name"`
	AdminID *int   `json:"admin_id,omitempty"`
}

// Token is the credential issued by /auth/token/.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Session is a stored credential for one API origin.
type Session struct {
	Origin    string    `json:"origin"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
