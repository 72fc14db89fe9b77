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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskclient help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-58s %s\n", config.AppName, "List tasks (same as list)")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-58s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(out, commonFlagsText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Exit codes:")
	for _, code := range exitcode.All {
		fmt.Fprintf(out, "  %d  %s\n", code, exitcode.Describe(code))
	}
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --base-url <url>   Backend base URL (or ` + config.EnvBaseURL + `)
  --env-file <path>  Load settings from a dotenv file (default: ./.env if present)
  --user <name>      Username (or ` + config.EnvUsername + `)
  --password <pw>    Password (or ` + config.EnvPassword + `)
  --timeout <dur>    Per-request timeout (or ` + config.EnvTimeout + `)
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
