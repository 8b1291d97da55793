package formatter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

func ptr[T any](v T) *T { return &v }

func sampleMovies() []models.MovieProfile {
	return []models.MovieProfile{
		{
			ID:          ptr(550),
			Title:       ptr("Fight Club"),
			ReleaseDate: ptr("1999-10-15"),
			VoteAverage: ptr(8.43),
			Genres:      []models.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}},
			PosterPath:  ptr("/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"),
			Runtime:     ptr(139),
			Overview:    ptr("An insomniac office worker..."),
		},
		{ID: ptr(1)},
	}
}

func TestParseFormat(t *testing.T) {
	tt := map[string]Format{"": FormatText, "TEXT": FormatText, "md": FormatMarkdown, "markdown": FormatMarkdown, "csv": FormatCSV}
	for in, want := range tt {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRender(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := Render(MoviesTable("Favorites", sampleMovies()), FormatCSV)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Year,Rating,Genres\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `550,Fight Club,1999,8.4,"Drama, Thriller"`) {
			t.Errorf("CSV missing movie row, got: %s", output)
		}
		if !strings.Contains(output, "1,Untitled,-,-,-") {
			t.Errorf("CSV should render absent fields as dashes, got: %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, _ := Render(Table{Title: "T", Headers: []string{"A", "B"}, Rows: [][]string{{"x|y", "z"}}}, FormatMarkdown)
		output := string(data)

		if !strings.Contains(output, "# T") {
			t.Errorf("Markdown missing title: %s", output)
		}
		if !strings.Contains(output, "| A | B |") || !strings.Contains(output, "| --- | --- |") {
			t.Errorf("Markdown missing header rows: %s", output)
		}
		if !strings.Contains(output, `| x\|y | z |`) {
			t.Errorf("Markdown should escape pipes: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, _ := Render(GenresTable([]models.Genre{{ID: 18, Name: "Drama"}}), FormatText)
		output := string(data)

		if !strings.Contains(output, "Genres") || !strings.Contains(output, "Drama") {
			t.Errorf("text output missing content: %s", output)
		}
	})

	t.Run("Empty Table", func(t *testing.T) {
		text, _ := Render(GroupsTable(nil), FormatText)
		md, _ := Render(GroupsTable(nil), FormatMarkdown)

		if !strings.Contains(string(text), "Nothing to show.") || !strings.Contains(string(md), "_Nothing to show._") {
			t.Errorf("expected empty placeholders, got %q and %q", text, md)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Render(Table{}, Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("MatchesTable Sorts By Likes", func(t *testing.T) {
		q := &models.GroupMatchQuery{
			GroupMembers: 4,
			Matches: []models.GroupMatch{
				{CountLikes: 2, Movie: models.MovieProfile{ID: ptr(1), Title: ptr("Two")}},
				{CountLikes: 4, Movie: models.MovieProfile{ID: ptr(2), Title: ptr("Four")}},
			},
		}

		tbl := MatchesTable(3, q)
		if tbl.Rows[0][1] != "Four" || tbl.Rows[0][2] != "4/4" {
			t.Errorf("expected most liked first, got %v", tbl.Rows)
		}
		if !strings.Contains(tbl.Title, "group #3") {
			t.Errorf("unexpected title %q", tbl.Title)
		}
		if q.Matches[0].CountLikes != 2 {
			t.Error("MatchesTable must not reorder the caller's slice")
		}
	})

	t.Run("MembersTable Marks Admin", func(t *testing.T) {
		g := models.Group{
			GroupID: ptr(1),
			AdminID: ptr(7),
			Members: []models.GroupMember{{UserID: 7, Name: ptr("Ann")}, {UserID: 8}},
		}

		tbl := MembersTable(g)
		if tbl.Rows[0][3] != "true" || tbl.Rows[1][3] != "false" {
			t.Errorf("unexpected admin flags: %v", tbl.Rows)
		}
		if tbl.Rows[1][1] != "-" {
			t.Errorf("missing name should render as dash, got %q", tbl.Rows[1][1])
		}
	})

	t.Run("ProvidersTable", func(t *testing.T) {
		tbl := ProvidersTable("Popular", []models.WatchProvider{{ProviderID: 8, ProviderName: "Netflix", DisplayPriority: ptr(1)}})
		if tbl.Rows[0][1] != "Netflix" || tbl.Rows[0][2] != "1" {
			t.Errorf("unexpected rows: %v", tbl.Rows)
		}
	})
}

func TestMovieDetail(t *testing.T) {
	movie := sampleMovies()[0]

	t.Run("Markdown", func(t *testing.T) {
		data, _ := MovieDetail(movie, FormatMarkdown)
		output := string(data)

		if !strings.Contains(output, "# Fight Club (1999)") {
			t.Errorf("missing heading: %s", output)
		}
		if !strings.Contains(output, "![Poster](https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg)") {
			t.Errorf("missing poster: %s", output)
		}
		if !strings.Contains(output, "**Runtime**: 2h 19m") {
			t.Errorf("missing runtime: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, _ := MovieDetail(movie, FormatText)
		if !strings.Contains(string(data), "Movie: Fight Club") || !strings.Contains(string(data), "ID: 550") {
			t.Errorf("unexpected text: %s", data)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, err := MovieDetail(movie, FormatCSV)
		if err != nil || strings.Count(string(data), "\n") != 2 {
			t.Errorf("expected header and one row, got %q, %v", data, err)
		}
	})
}

func TestFormatRuntime(t *testing.T) {
	tt := map[int]string{0: "-", 45: "45m", 60: "1h 00m", 139: "2h 19m"}
	for in, want := range tt {
		if got := FormatRuntime(in); got != want {
			t.Errorf("FormatRuntime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer srv.Close()

		data, err := DownloadImage(srv.URL + "/poster.jpg")
		if err != nil || string(data) != "jpeg-bytes" {
			t.Errorf("DownloadImage() = %q, %v", data, err)
		}
	})

	t.Run("Bad Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := DownloadImage(srv.URL); err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("SavePoster Without Poster", func(t *testing.T) {
		err := SavePoster(models.MovieProfile{Title: ptr("No Art")}, t.TempDir()+"/p.jpg")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
