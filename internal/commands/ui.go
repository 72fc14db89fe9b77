package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskclient/internal/config"
	"taskclient/internal/exitcode"
	"taskclient/internal/session"
	"taskclient/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Interactive client" }
func (c *UICmd) Usage() string     { return "taskclient ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, ctrl, cfg, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
