package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vk/faro/internal/app"
	"github.com/vk/faro/internal/module"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

func failure(err error) error {
	return &ExitError{Code: 1, Message: err.Error()}
}

// Execute runs the command line given by args. Command output goes to outW,
// logs to errW. Every failure is returned as an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, modules ...module.Module) error {
	defaults, err := app.ConfigFromEnv()
	if err != nil {
		return usageError(err)
	}

	root := NewRootCommand(defaults, errW, modules...)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err = root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra itself rejects, like an unknown command, is a usage error.
	return usageError(err)
}

// NewRootCommand builds the faro command tree. Flag defaults come from
// defaults; logW receives the application's logs.
func NewRootCommand(defaults app.Config, logW io.Writer, modules ...module.Module) *cobra.Command {
	cfg := defaults

	root := &cobra.Command{
		Use:   "faro",
		Short: "Faro - dependency-ordered module activation",
		Long: `faro activates a set of modules in dependency order: each module
contributes definitions to a shared container, and once the container is
built, each module is set up after the modules it depends on.

Modules are configured with HCL files:

  module "healthcheck" {
    settings = { path = "/ready" }
  }`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&cfg.ConfigPaths, "config", "c", cfg.ConfigPaths, "Path to an .hcl file or a directory of .hcl files. Repeatable; later files win.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")

	newApp := func() (*app.App, error) {
		validated, err := app.NewConfig(cfg)
		if err != nil {
			return nil, usageError(err)
		}
		a, err := app.NewApp(logW, validated, modules...)
		if err != nil {
			return nil, usageError(err)
		}
		return a, nil
	}

	root.AddCommand(
		newRunCommand(newApp),
		newPlanCommand(newApp),
		newModulesCommand(newApp),
	)
	return root
}

func newRunCommand(newApp func() (*app.App, error)) *cobra.Command {
	var serve bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Activate every enabled module",
		Long:  "Build the container from every enabled module and run each module's setup in dependency order. With --serve, keep serving HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			c, err := a.Build(cmd.Context())
			if err != nil {
				return failure(err)
			}

			records := a.Registry().Records()
			names := make([]string, len(records))
			for i, rec := range records {
				names[i] = rec.Name()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activated %d module(s): %s\n", len(names), strings.Join(names, ", "))

			if !serve {
				return nil
			}
			if err := a.Serve(cmd.Context(), c); err != nil {
				return failure(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&serve, "serve", false, "Serve the httpserver module's mux until interrupted.")
	return cmd
}

func newPlanCommand(newApp func() (*app.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the activation order without building anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			plan, err := a.Plan(cmd.Context())
			if err != nil {
				return failure(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}
}

func newModulesCommand(newApp func() (*app.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List compiled-in modules with their enabled state and dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tENABLED\tDEPENDS ON")
			for _, info := range a.Modules() {
				deps := "-"
				if len(info.DependsOn) > 0 {
					deps = strings.Join(info.DependsOn, ", ")
				}
				fmt.Fprintf(tw, "%s\t%t\t%s\n", info.Name, info.Enabled, deps)
			}
			return tw.Flush()
		},
	}
}
