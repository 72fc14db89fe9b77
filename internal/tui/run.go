package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"taskclient/internal/config"
	"taskclient/internal/session"
)

// Run starts the interactive client and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, ctrl *session.Controller, cfg *config.Config, out io.Writer) error {
	p := tea.NewProgram(New(ctx, ctrl, cfg.BaseURL),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
