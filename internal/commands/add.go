package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskclient/internal/config"
	"taskclient/internal/exitcode"
	"taskclient/internal/service"
	"taskclient/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the task description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskclient add [common flags] [--description <text>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

// ValidateArgs rejects a missing title before the dispatcher logs in.
func (c *AddCmd) ValidateArgs(args []string) error {
	if strings.Join(args, " ") == "" {
		return service.ErrValidation
	}
	return nil
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")

	if err := ctrl.CreateTask(ctx, title, c.description); err != nil {
		return ReportError(errOut, err)
	}

	// The task is stored; a failed refresh afterwards does not undo that.
	if err := ctrl.State().Err; err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
