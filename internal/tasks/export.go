package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	defaultRate    = 5.0
	manifestName   = "export_manifest.json"
)

// GroupSource lists groups and their matches.
type GroupSource interface {
	List(ctx context.Context) ([]models.Group, error)
	Matches(ctx context.Context, id int) (*models.GroupMatchQuery, error)
}

// FavoriteSource lists the caller's favourites.
type FavoriteSource interface {
	Favorites(ctx context.Context) ([]models.MovieProfile, error)
}

// ExportOpts contains configuration for an export.
type ExportOpts struct {
	Format     string  // json, csv, markdown or text
	OutputDir  string  // default: mfx_export_{epoch}
	NumWorkers int     // concurrent group exports, capped at 10
	RateLimit  float64 // match requests per second
}

// GroupExportResult records the outcome for one group.
type GroupExportResult struct {
	GroupID   int    `json:"group_id"`
	GroupName string `json:"group_name"`
	Matches   int    `json:"matches"`
	File      string `json:"file,omitempty"`
	Success   bool   `json:"success"`
	Error     error  `json:"-"`
	ErrorText string `json:"error,omitempty"`
}

// ExportResult summarises an export and doubles as its manifest.
type ExportResult struct {
	OutputDirectory string              `json:"output_directory"`
	Format          string              `json:"format"`
	ExportedAt      time.Time           `json:"exported_at"`
	Favorites       int                 `json:"favorites"`
	FavoritesFile   string              `json:"favorites_file"`
	TotalGroups     int                 `json:"total_groups"`
	Successful      int                 `json:"successful"`
	Failed          int                 `json:"failed"`
	Groups          []GroupExportResult `json:"groups"`
	ManifestPath    string              `json:"-"`
}

// Exporter writes account data to disk.
type Exporter struct {
	groups    GroupSource
	favorites FavoriteSource
}

// NewExporter creates an exporter over the given sources.
func NewExporter(groups GroupSource, favorites FavoriteSource) *Exporter {
	return &Exporter{groups: groups, favorites: favorites}
}

// Export writes favourites, one file per group's matches and a manifest into opts.OutputDir.
//
// Per-group failures are recorded in the result. Failing to fetch favourites or the
// group list, or to create files, aborts with an error.
func (e *Exporter) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.groups == nil || e.favorites == nil {
		return nil, fmt.Errorf("%w: export sources not initialized", shared.ErrServiceUnavailable)
	}

	ext, err := extension(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mfx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRate
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
	}

	favorites, err := e.favorites.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("export favourites: %w", err)
	}
	result.Favorites = len(favorites)
	result.FavoritesFile = filepath.Join(opts.OutputDir, "favorites"+ext)
	if err := writeFile(result.FavoritesFile, opts.Format, favorites, formatter.MoviesTable("Favourites", favorites)); err != nil {
		return nil, err
	}
	sendProgress(progress, favoritesUpdate(len(favorites), result.FavoritesFile))

	groups, err := e.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export groups: %w", err)
	}
	result.TotalGroups = len(groups)
	sendProgress(progress, groupsUpdate(len(groups)))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan models.Group, len(groups))
	results := make(chan GroupExportResult, len(groups))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, results, opts, ext)
	}

	for _, g := range groups {
		jobs <- g
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Groups = append(result.Groups, res)
		if res.Success {
			result.Successful++
			sendProgress(progress, groupDoneUpdate(completed, len(groups), res))
		} else {
			result.Failed++
			sendProgress(progress, groupFailedUpdate(completed, len(groups), res))
		}
	}
	sort.Slice(result.Groups, func(i, j int) bool { return result.Groups[i].GroupID < result.Groups[j].GroupID })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(progress, manifestUpdate(manifestPath))
	return result, nil
}

// exportWorker drains jobs until the channel closes or ctx is cancelled.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan models.Group,
	results chan<- GroupExportResult,
	opts ExportOpts,
	ext string,
) {
	defer wg.Done()

	for g := range jobs {
		res := GroupExportResult{GroupID: g.ID(), GroupName: g.DisplayName()}

		if err := limiter.Wait(ctx); err != nil {
			res.Error = err
			res.ErrorText = err.Error()
			results <- res
			continue
		}

		if err := e.exportGroup(ctx, &res, opts, ext); err != nil {
			res.Error = err
			res.ErrorText = err.Error()
		} else {
			res.Success = true
		}
		results <- res
	}
}

func (e *Exporter) exportGroup(ctx context.Context, res *GroupExportResult, opts ExportOpts, ext string) error {
	matches, err := e.groups.Matches(ctx, res.GroupID)
	if err != nil {
		return fmt.Errorf("fetch matches: %w", err)
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("group_%d%s", res.GroupID, ext))
	if err := writeFile(path, opts.Format, matches, formatter.MatchesTable(res.GroupID, matches)); err != nil {
		return err
	}
	res.Matches = len(matches.Matches)
	res.File = path
	return nil
}

// extension validates format and returns the file extension used for it.
func extension(format string) (string, error) {
	if strings.EqualFold(format, "json") || format == "" {
		return ".json", nil
	}
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return "", err
	}
	switch f {
	case formatter.FormatCSV:
		return ".csv", nil
	case formatter.FormatMarkdown:
		return ".md", nil
	default:
		return ".txt", nil
	}
}

// writeFile writes v as JSON, or tbl in a table format.
func writeFile(path, format string, v any, tbl formatter.Table) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(format, "json") || format == "" {
		data, err = shared.MarshalJSON(v, true)
	} else {
		var f formatter.Format
		if f, err = formatter.ParseFormat(format); err == nil {
			data, err = formatter.Render(tbl, f)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
