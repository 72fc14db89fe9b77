package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskclient/internal/config"
	"taskclient/internal/exitcode"
	"taskclient/internal/output"
	"taskclient/internal/service"
	"taskclient/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskclient` (no args) and `taskclient list`.
type ListCmd struct {
	refresh bool
}

// SetRefresh forces a fetch even if the list was loaded at login (for testing).
func (c *ListCmd) SetRefresh(refresh bool) {
	c.refresh = refresh
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskclient list [common flags] [--refresh]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.refresh, "refresh", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	st := ctrl.State()
	if !st.LoggedIn {
		return ReportError(errOut, service.ErrNotLoggedIn)
	}

	// Login already refreshed the list; a failure there is the current notification.
	if c.refresh {
		if err := ctrl.RefreshTasks(ctx); err != nil {
			return ReportError(errOut, err)
		}
		st = ctrl.State()
	} else if st.Err != nil {
		return ReportError(errOut, st.Err)
	}

	if len(st.Tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.NoTasks)
		}
		return exitcode.Success
	}

	output.FormatTasks(out, st.Tasks)
	return exitcode.Success
}
