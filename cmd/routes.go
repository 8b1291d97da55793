package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Routes prints the route table.
func (r *Runner) Routes(ctx context.Context, cmd *cli.Command) error {
	table := r.navigator.Table()
	routes := table.Routes()

	tbl := formatter.Table{
		Title:   fmt.Sprintf("Routes (login %s, landing %s)", table.Login(), table.Landing()),
		Headers: []string{"Path", "Name", "Target", "Header", "Auth", "Entry"},
	}
	for _, rt := range routes {
		target := string(rt.View)
		if rt.IsRedirect() {
			target = "→ " + rt.Redirect
		}
		tbl.Rows = append(tbl.Rows, []string{
			rt.Path,
			rt.Name,
			target,
			strconv.FormatBool(rt.Meta.ShowHeader),
			strconv.FormatBool(rt.Meta.RequiresAuth),
			strconv.FormatBool(rt.Meta.Entry),
		})
	}
	return r.emit(cmd, routes, tbl)
}

// Navigate resolves a path with the current session and prints where it ends up.
func (r *Runner) Navigate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: <path>", shared.ErrMissingArgument)
	}

	out, err := r.navigator.Navigate(path)
	if err != nil {
		return err
	}

	via := "direct"
	switch {
	case out.Guarded:
		via = "guard"
	case out.Redirected():
		via = "redirect"
	}
	tbl := formatter.Table{
		Title:   "Navigation",
		Headers: []string{"Requested", "Resolved", "View", "Via", "Chain"},
		Rows: [][]string{{
			out.Requested,
			out.Route.Path,
			string(out.Route.View),
			via,
			strings.Join(out.Chain, " → "),
		}},
	}
	return r.emit(cmd, out, tbl)
}
