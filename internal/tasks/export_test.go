package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
	tu "github.com/desertthunder/mfx/internal/testing"
)

func ptr[T any](v T) *T { return &v }

type fakeGroups struct {
	mu      sync.Mutex
	groups  []models.Group
	listErr error
	failing map[int]error
	calls   []int
}

func (f *fakeGroups) List(ctx context.Context) ([]models.Group, error) {
	return f.groups, f.listErr
}

func (f *fakeGroups) Matches(ctx context.Context, id int) (*models.GroupMatchQuery, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if err := f.failing[id]; err != nil {
		return nil, err
	}
	return &models.GroupMatchQuery{
		GroupMembers: 3,
		Matches: []models.GroupMatch{
			{GroupID: id, CountLikes: 2, Movie: models.MovieProfile{ID: ptr(100 + id), Title: ptr(fmt.Sprintf("Movie %d", id))}},
		},
	}, nil
}

type fakeFavorites struct {
	movies []models.MovieProfile
	err    error
}

func (f *fakeFavorites) Favorites(ctx context.Context) ([]models.MovieProfile, error) {
	return f.movies, f.err
}

func newGroups(n int) []models.Group {
	groups := make([]models.Group, n)
	for i := range groups {
		groups[i] = models.Group{GroupID: ptr(i + 1), Name: ptr(fmt.Sprintf("Group %d", i+1))}
	}
	return groups
}

func TestExporter(t *testing.T) {
	favorites := &fakeFavorites{movies: []models.MovieProfile{{ID: ptr(7), Title: ptr("Heat")}}}

	t.Run("Exports Every Format", func(t *testing.T) {
		tt := []struct {
			format string
			ext    string
			want   string
		}{
			{format: "json", ext: ".json", want: `"title": "Heat"`},
			{format: "csv", ext: ".csv", want: "ID,Title,Year,Rating,Genres"},
			{format: "markdown", ext: ".md", want: "# Favourites"},
			{format: "text", ext: ".txt", want: "Heat"},
		}

		for _, tc := range tt {
			t.Run(tc.format, func(t *testing.T) {
				dir := t.TempDir()
				groups := &fakeGroups{groups: newGroups(2)}

				result, err := NewExporter(groups, favorites).Export(context.Background(), nil, ExportOpts{
					Format:    tc.format,
					OutputDir: dir,
					RateLimit: 1000,
				})
				if err != nil {
					t.Fatalf("Export() error = %v", err)
				}

				if result.Successful != 2 || result.Failed != 0 {
					t.Errorf("expected 2 successful exports, got %d ok / %d failed", result.Successful, result.Failed)
				}

				data := tu.MustReadFile(t, filepath.Join(dir, "favorites"+tc.ext))
				if !strings.Contains(data, tc.want) {
					t.Errorf("favourites file missing %q:\n%s", tc.want, data)
				}

				for _, id := range []int{1, 2} {
					tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("group_%d%s", id, tc.ext)))
				}
			})
		}
	})

	t.Run("Records Group Failures", func(t *testing.T) {
		dir := t.TempDir()
		groups := &fakeGroups{
			groups:  newGroups(3),
			failing: map[int]error{2: shared.ErrForbidden},
		}

		result, err := NewExporter(groups, favorites).Export(context.Background(), nil, ExportOpts{OutputDir: dir, RateLimit: 1000})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		if result.Successful != 2 || result.Failed != 1 {
			t.Fatalf("expected 2 ok / 1 failed, got %d / %d", result.Successful, result.Failed)
		}
		if result.Groups[1].GroupID != 2 || result.Groups[1].Success {
			t.Errorf("expected group 2 to be the recorded failure, got %+v", result.Groups[1])
		}
		if !errors.Is(result.Groups[1].Error, shared.ErrForbidden) {
			t.Errorf("expected wrapped ErrForbidden, got %v", result.Groups[1].Error)
		}
	})

	t.Run("Writes Manifest", func(t *testing.T) {
		dir := t.TempDir()
		groups := &fakeGroups{groups: newGroups(1), failing: map[int]error{1: shared.ErrNotFound}}

		result, err := NewExporter(groups, favorites).Export(context.Background(), nil, ExportOpts{OutputDir: dir, RateLimit: 1000})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("manifest missing: %v", err)
		}

		var manifest struct {
			Format    string `json:"format"`
			Favorites int    `json:"favorites"`
			Failed    int    `json:"failed"`
			Groups    []struct {
				Error string `json:"error"`
			} `json:"groups"`
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("manifest is not JSON: %v", err)
		}
		if manifest.Format != "json" {
			t.Errorf("expected default format json in manifest, got %q", manifest.Format)
		}
		if manifest.Favorites != 1 || manifest.Failed != 1 {
			t.Errorf("unexpected manifest counts: %+v", manifest)
		}
		if len(manifest.Groups) != 1 || !strings.Contains(manifest.Groups[0].Error, "fetch matches") {
			t.Errorf("expected failure text in manifest, got %+v", manifest.Groups)
		}
	})

	t.Run("Favorites Failure Aborts", func(t *testing.T) {
		groups := &fakeGroups{groups: newGroups(2)}
		failing := &fakeFavorites{err: shared.ErrSessionExpired}

		_, err := NewExporter(groups, failing).Export(context.Background(), nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		if len(groups.calls) != 0 {
			t.Errorf("expected no match requests, got %v", groups.calls)
		}
	})

	t.Run("Group List Failure Aborts", func(t *testing.T) {
		groups := &fakeGroups{listErr: shared.ErrServiceUnavailable}

		_, err := NewExporter(groups, favorites).Export(context.Background(), nil, ExportOpts{OutputDir: t.TempDir()})
		if err == nil || !strings.Contains(err.Error(), "export groups") {
			t.Fatalf("expected wrapped list error, got %v", err)
		}
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		_, err := NewExporter(&fakeGroups{}, favorites).Export(context.Background(), nil, ExportOpts{Format: "xml", OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Missing Sources", func(t *testing.T) {
		_, err := NewExporter(nil, nil).Export(context.Background(), nil, ExportOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		groups := &fakeGroups{groups: newGroups(5)}
		progress := make(chan ProgressUpdate)

		_, err := NewExporter(groups, favorites).Export(context.Background(), progress, ExportOpts{
			OutputDir:  t.TempDir(),
			NumWorkers: 2,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
	})

	t.Run("Reports Progress", func(t *testing.T) {
		groups := &fakeGroups{groups: newGroups(2)}
		progress := make(chan ProgressUpdate, 16)

		if _, err := NewExporter(groups, favorites).Export(context.Background(), progress, ExportOpts{OutputDir: t.TempDir(), RateLimit: 1000}); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for u := range progress {
			phases[u.Phase]++
		}
		if phases[FetchFavorites] != 1 || phases[FetchGroups] != 1 || phases[ExportGroup] != 2 || phases[WriteManifest] != 1 {
			t.Errorf("unexpected progress phases: %v", phases)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		groups := &fakeGroups{groups: newGroups(3)}
		cancel()

		result, err := NewExporter(groups, favorites).Export(ctx, nil, ExportOpts{OutputDir: t.TempDir(), RateLimit: 1000})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Failed != 3 {
			t.Errorf("expected every group to fail after cancellation, got %+v", result)
		}
	})
}

func TestPhase(t *testing.T) {
	for phase, want := range map[Phase]string{
		FetchFavorites: "fetch_favorites",
		FetchGroups:    "fetch_groups",
		ExportGroup:    "export_group",
		WriteManifest:  "write_manifest",
		Phase(99):      "",
	} {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
