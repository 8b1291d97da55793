// package formatter renders movies, groups and matches as plain text, Markdown or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseFormat accepts text, markdown (md) or csv, case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt", "plain":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, markdown or csv)", shared.ErrInvalidArgument, s)
	}
}

// Table is a titled grid of cells, the common shape every renderer consumes.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render writes t in the given format.
func Render(t Table, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return toCSV(t)
	case FormatMarkdown:
		return toMarkdown(t), nil
	case FormatText, "":
		return toText(t), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

func toCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func toMarkdown(t Table) []byte {
	var buf bytes.Buffer

	if t.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", t.Title)
	}
	if len(t.Rows) == 0 {
		buf.WriteString("_Nothing to show._\n")
		return buf.Bytes()
	}

	buf.WriteString("| " + strings.Join(escapeCells(t.Headers), " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		buf.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	return buf.Bytes()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func toText(t Table) []byte {
	var buf bytes.Buffer

	if t.Title != "" {
		buf.WriteString(t.Title + "\n")
	}
	if len(t.Rows) == 0 {
		buf.WriteString("Nothing to show.\n")
		return buf.Bytes()
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...)
	buf.WriteString(tbl.String())
	buf.WriteString("\n")
	return buf.Bytes()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rating(m models.MovieProfile) string {
	if m.VoteAverage == nil {
		return ""
	}
	return strconv.FormatFloat(*m.VoteAverage, 'f', 1, 64)
}

// MoviesTable lists movies with id, title, year, rating and genres.
func MoviesTable(title string, movies []models.MovieProfile) Table {
	t := Table{Title: title, Headers: []string{"ID", "Title", "Year", "Rating", "Genres"}}
	for _, m := range movies {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.MovieID()),
			m.DisplayTitle(),
			orDash(m.Year()),
			orDash(rating(m)),
			orDash(m.GenreNames()),
		})
	}
	return t
}

// MatchesTable lists a group's matches, most liked first.
func MatchesTable(groupID int, q *models.GroupMatchQuery) Table {
	t := Table{
		Title:   fmt.Sprintf("Matches for group #%d (%d members)", groupID, q.GroupMembers),
		Headers: []string{"Movie", "Title", "Likes", "Last Update"},
	}

	matches := append([]models.GroupMatch(nil), q.Matches...)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CountLikes > matches[j].CountLikes })

	for _, m := range matches {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.Movie.MovieID()),
			m.Movie.DisplayTitle(),
			fmt.Sprintf("%d/%d", m.CountLikes, q.GroupMembers),
			orDash(m.LastUpdate),
		})
	}
	return t
}

// GroupsTable lists groups with their administrator and member count.
func GroupsTable(groups []models.Group) Table {
	t := Table{Title: "Groups", Headers: []string{"ID", "Name", "Admin", "Members"}}
	for _, g := range groups {
		admin := ""
		if g.AdminID != nil {
			admin = strconv.Itoa(*g.AdminID)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(g.ID()),
			g.DisplayName(),
			orDash(admin),
			strconv.Itoa(len(g.Members)),
		})
	}
	return t
}

// MembersTable lists the members embedded in a group.
func MembersTable(g models.Group) Table {
	t := Table{Title: g.DisplayName() + " members", Headers: []string{"User", "Name", "Email", "Admin"}}
	for _, m := range g.Members {
		isAdmin := g.AdminID != nil && *g.AdminID == m.UserID
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.UserID),
			orDash(deref(m.Name)),
			orDash(deref(m.Email)),
			strconv.FormatBool(isAdmin),
		})
	}
	return t
}

func GenresTable(genres []models.Genre) Table {
	t := Table{Title: "Genres", Headers: []string{"ID", "Name"}}
	for _, g := range genres {
		t.Rows = append(t.Rows, []string{strconv.Itoa(g.ID), g.Name})
	}
	return t
}

func ProvidersTable(title string, providers []models.WatchProvider) Table {
	t := Table{Title: title, Headers: []string{"ID", "Name", "Priority"}}
	for _, p := range providers {
		priority := ""
		if p.DisplayPriority != nil {
			priority = strconv.Itoa(*p.DisplayPriority)
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(p.ProviderID), p.ProviderName, orDash(priority)})
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MovieDetail renders a single movie. CSV falls back to a one-row [MoviesTable].
func MovieDetail(m models.MovieProfile, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return Render(MoviesTable("", []models.MovieProfile{m}), f)
	case FormatMarkdown:
		return movieMarkdown(m), nil
	default:
		return movieText(m), nil
	}
}

func movieMarkdown(m models.MovieProfile) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s", m.DisplayTitle())
	if y := m.Year(); y != "" {
		fmt.Fprintf(&buf, " (%s)", y)
	}
	buf.WriteString("\n\n")

	if poster := m.PosterURL(); poster != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", poster)
	}
	if tagline := deref(m.Tagline); tagline != "" {
		fmt.Fprintf(&buf, "_%s_\n\n", tagline)
	}
	if r := rating(m); r != "" {
		fmt.Fprintf(&buf, "**Rating**: %s", r)
		if m.VoteCount != nil {
			fmt.Fprintf(&buf, " (%d votes)", *m.VoteCount)
		}
		buf.WriteString("\n")
	}
	if m.Runtime != nil {
		fmt.Fprintf(&buf, "**Runtime**: %s\n", FormatRuntime(*m.Runtime))
	}
	if g := m.GenreNames(); g != "" {
		fmt.Fprintf(&buf, "**Genres**: %s\n", g)
	}
	if overview := deref(m.Overview); overview != "" {
		fmt.Fprintf(&buf, "\n%s\n", overview)
	}
	return buf.Bytes()
}

func movieText(m models.MovieProfile) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movie: %s\n", m.DisplayTitle())
	fmt.Fprintf(&buf, "ID: %d\n", m.MovieID())
	if y := m.Year(); y != "" {
		fmt.Fprintf(&buf, "Year: %s\n", y)
	}
	if r := rating(m); r != "" {
		fmt.Fprintf(&buf, "Rating: %s\n", r)
	}
	if m.Runtime != nil {
		fmt.Fprintf(&buf, "Runtime: %s\n", FormatRuntime(*m.Runtime))
	}
	if g := m.GenreNames(); g != "" {
		fmt.Fprintf(&buf, "Genres: %s\n", g)
	}
	if poster := m.PosterURL(); poster != "" {
		fmt.Fprintf(&buf, "Poster: %s\n", poster)
	}
	if overview := deref(m.Overview); overview != "" {
		fmt.Fprintf(&buf, "\n%s\n", overview)
	}
	return buf.Bytes()
}

// FormatRuntime renders minutes as "2h 19m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// SavePoster downloads the movie's poster to path, creating parent directories.
func SavePoster(m models.MovieProfile, path string) error {
	poster := m.PosterURL()
	if poster == "" {
		return fmt.Errorf("%w: %s has no poster", shared.ErrNotFound, m.DisplayTitle())
	}

	data, err := DownloadImage(poster)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write poster: %w", err)
	}
	return nil
}
