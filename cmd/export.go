package main

import (
	"context"

	"github.com/desertthunder/mfx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes favourites and group matches to a directory, printing progress as it goes.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(favoritesPath); err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message, "phase", u.Phase)
		}
	}()

	exporter := tasks.NewExporter(r.client.Groups, r.client.Movies)
	result, err := exporter.Export(ctx, progress, tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Directory:  %s\n", result.OutputDirectory)
	r.writePlain("Favourites: %d\n", result.Favorites)
	r.writePlain("Groups:     %d ok, %d failed\n", result.Successful, result.Failed)
	for _, g := range result.Groups {
		if !g.Success {
			r.writePlain("  ✗ %s: %s\n", g.GroupName, g.ErrorText)
		}
	}
	return r.writePlain("Manifest:   %s\n", result.ManifestPath)
}
