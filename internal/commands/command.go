// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskclient/internal/config"
	"taskclient/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a logged-in session.
	// The dispatcher logs in with the configured credentials before Run.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// ctrl is logged in (with its task list refreshed) if NeedsAuth() returns true.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, ctrl *session.Controller, args []string, out, errOut io.Writer) int
}

// ArgValidator is implemented by commands that can reject their
// positional arguments before the dispatcher contacts the backend.
type ArgValidator interface {
	ValidateArgs(args []string) error
}
