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
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
// The session only lasts for the process, so this verifies credentials
// and reports who the backend says we are.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Check credentials" }
func (c *LoginCmd) Usage() string     { return "taskclient login [common flags]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	if !cfg.HasCredentials() {
		fmt.Fprintf(errOut, "error: %v\n", config.ErrNoCredentials)
		return exitcode.AuthError
	}

	if err := ctrl.Login(ctx, cfg.Username, cfg.Password); err != nil {
		return ReportError(errOut, err)
	}

	if cfg.Quiet {
		return exitcode.Success
	}

	st := ctrl.State()
	if st.Expiry.IsZero() {
		fmt.Fprintf(out, "logged in as %s\n", st.Subject)
	} else {
		fmt.Fprintf(out, "logged in as %s (token expires %s)\n", st.Subject, st.Expiry.Local().Format("2006-01-02 15:04"))
	}
	return exitcode.Success
}
