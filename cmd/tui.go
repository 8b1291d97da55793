package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mfx/internal/services"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/desertthunder/mfx/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/mfx-tui.log"

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	f, err := shared.OpenLogFile(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	r.logger.SetOutput(f)

	model := ui.NewModel(ctx, r.client, r.navigator, r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := r.client.OnSessionExpired(func(ev services.SessionExpired) {
		p.Send(ui.SessionExpiredMsg{Reason: "session expired"})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
