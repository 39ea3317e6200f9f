package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/app"
	"github.com/roach88/smartfarm/internal/config"
	"github.com/roach88/smartfarm/internal/logger"
	"github.com/roach88/smartfarm/internal/navigation"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	MetricsFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// AppFactory builds the wired client for one invocation.
type AppFactory func(ctx context.Context, opts *RootOptions) (*app.App, error)

// DefaultAppFactory loads configuration, initialises the process logger,
// and opens the configured session store.
func DefaultAppFactory(ctx context.Context, opts *RootOptions) (*app.App, error) {
	cfg, err := config.Load(config.Options{Path: opts.ConfigPath})
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: cfg.Log.Pretty})

	return app.New(ctx, cfg, app.Options{Log: log})
}

// runtime is shared by the commands of one invocation. The App is built on
// first use so that --help and usage errors never touch the store.
type runtime struct {
	opts    *RootOptions
	factory AppFactory
	out     *OutputFormatter

	app    *app.App
	router *navigation.Router
}

func (rt *runtime) client(ctx context.Context) (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}
	a, err := rt.factory(ctx, rt.opts)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "Could not start the client", err)
	}
	rt.app = a
	rt.router = navigation.NewRouter()
	return a, nil
}

// session builds the client and rehydrates the stored session.
func (rt *runtime) session(ctx context.Context) (*app.App, error) {
	a, err := rt.client(ctx)
	if err != nil {
		return nil, err
	}
	a.Session.Initialize(ctx)
	rt.router.Sync(a.Session.Snapshot())
	return a, nil
}

// close writes the metrics file, if asked for, and releases the store.
func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	var err error
	if rt.opts.MetricsFile != "" {
		err = prometheus.WriteToTextfile(rt.opts.MetricsFile, rt.app.Registry)
	}
	if cerr := rt.app.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand creates the root command for the smartfarm CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runtime{opts: &RootOptions{}, factory: DefaultAppFactory})
}

func newRootCommand(rt *runtime) *cobra.Command {
	opts := rt.opts

	cmd := &cobra.Command{
		Use:   "smartfarm",
		Short: "Smart Farming client",
		Long: "Command-line client for the Smart Farming marketplace: farmers list crops " +
			"and get recommendations, buyers place orders, admins moderate.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			rt.out = &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write API client metrics to this file on exit")

	// Add subcommands
	cmd.AddCommand(newLoginCommand(rt))
	cmd.AddCommand(newSignupCommand(rt))
	cmd.AddCommand(newLogoutCommand(rt))
	cmd.AddCommand(newWhoamiCommand(rt))
	cmd.AddCommand(newForgotPasswordCommand(rt))
	cmd.AddCommand(newResetPasswordCommand(rt))
	cmd.AddCommand(newHomeCommand(rt))
	cmd.AddCommand(newUseCommand(rt))
	cmd.AddCommand(newProfileCommand(rt))
	cmd.AddCommand(newFarmerProfileCommand(rt))
	cmd.AddCommand(newBuyerProfileCommand(rt))
	cmd.AddCommand(newCropsCommand(rt))
	cmd.AddCommand(newOrdersCommand(rt))
	cmd.AddCommand(newAdminCommand(rt))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return ExecuteWith(ctx, DefaultAppFactory, args, stdout, stderr)
}

// ExecuteWith is Execute with a custom AppFactory.
func ExecuteWith(ctx context.Context, factory AppFactory, args []string, stdout, stderr io.Writer) int {
	rt := &runtime{opts: &RootOptions{Format: "text"}, factory: factory}
	cmd := newRootCommand(rt)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if cerr := rt.close(); cerr != nil && err == nil {
		err = WrapExitError(ExitFailure, "Could not close the client", cerr)
	}
	if err == nil {
		return ExitSuccess
	}

	out := rt.out
	if out == nil {
		format := "text"
		if isValidFormat(rt.opts.Format) {
			format = rt.opts.Format
		}
		out = &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: rt.opts.Verbose}
	}
	return renderError(out, err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
