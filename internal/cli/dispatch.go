package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskclient/internal/backend/taskapi"
	"taskclient/internal/commands"
	"taskclient/internal/config"
	"taskclient/internal/exitcode"
	"taskclient/internal/logger"
	"taskclient/internal/service"
	"taskclient/internal/session"
)

// GatewayFactory creates a Gateway from config.
// Used to inject the backend during dispatch.
type GatewayFactory func(cfg *config.Config, log *logger.Logger) (service.Gateway, error)

// DefaultFactory talks to the configured task API over HTTP.
func DefaultFactory(cfg *config.Config, log *logger.Logger) (service.Gateway, error) {
	return taskapi.New(cfg, log), nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  GatewayFactory
}

// NewDispatcher creates a new dispatcher with the given registry and gateway factory.
// A nil factory means DefaultFactory.
func NewDispatcher(registry *commands.Registry, factory GatewayFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	baseURL  string
	envFile  string
	username string
	password string
	timeout  time.Duration
	quiet    bool
	debug    bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.baseURL, "base-url", "", "")
	fs.StringVar(&f.envFile, "env-file", "", "")
	fs.StringVar(&f.username, "user", "", "")
	fs.StringVar(&f.password, "password", "", "")
	fs.DurationVar(&f.timeout, "timeout", 0, "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// apply layers flag values over cfg. Flags win over env and dotenv.
func (f *commonFlags) apply(cfg *config.Config) error {
	if f.baseURL != "" {
		if err := cfg.SetBaseURL(f.baseURL); err != nil {
			return err
		}
	}
	if f.username != "" {
		cfg.Username = f.username
	}
	if f.password != "" {
		cfg.Password = f.password
	}
	if f.timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", f.timeout)
	}
	if f.timeout > 0 {
		cfg.Timeout = f.timeout
	}
	cfg.Quiet = f.quiet
	cfg.Debug = f.debug
	return nil
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	if v, ok := cmd.(commands.ArgValidator); ok {
		if err := v.ValidateArgs(positionalArgs); err != nil {
			return commands.ReportError(errOut, err)
		}
	}

	cfg, err := config.New(common.envFile)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := common.apply(cfg); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	log := logger.New(errOut, cfg.Debug)
	log.Debugf("command=%s base_url=%s timeout=%s", cmd.Name(), cfg.BaseURL, cfg.Timeout)

	gw, err := d.factory(cfg, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	var opts []session.Option
	if log.Enabled() {
		opts = append(opts, session.WithRenderer(func(st session.State) {
			log.Debugf("view=%s logged_in=%t tasks=%d", st.View, st.LoggedIn, len(st.Tasks))
		}))
	}
	ctrl := session.NewController(gw, opts...)

	// Check auth requirements
	if cmd.NeedsAuth() {
		if !cfg.HasCredentials() {
			fmt.Fprintf(errOut, "error: %v\n", config.ErrNoCredentials)
			return exitcode.AuthError
		}
		if err := ctrl.Login(ctx, cfg.Username, cfg.Password); err != nil {
			return commands.ReportError(errOut, err)
		}
	}

	// Run command
	return cmd.Run(ctx, cfg, ctrl, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
