package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskclient/internal/config"
	"taskclient/internal/exitcode"
	"taskclient/internal/session"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct{}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string     { return "taskclient signup [common flags]" }
func (c *SignupCmd) NeedsAuth() bool   { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	if !cfg.HasCredentials() {
		fmt.Fprintf(errOut, "error: %v\n", config.ErrNoCredentials)
		return exitcode.UserError
	}

	if err := ctrl.Signup(ctx, cfg.Username, cfg.Password); err != nil {
		return ReportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
