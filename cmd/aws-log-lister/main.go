package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nao-Mk2/aws-log-lister/cmd"
	"github.com/Nao-Mk2/aws-log-lister/internal/client"
	"github.com/Nao-Mk2/aws-log-lister/internal/inspector"
	"github.com/Nao-Mk2/aws-log-lister/internal/match"
	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

var version = "dev"

// usageError marks errors caused by bad arguments or options.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// sourceFactory builds the remote API client; replaced in tests.
type sourceFactory func(ctx context.Context, o client.AuthOptions) (inspector.LogsSource, error)

func newCloudWatchSource(ctx context.Context, o client.AuthOptions) (inspector.LogsSource, error) {
	return client.NewCloudWatchClient(ctx, o)
}

type app struct {
	opts      *cmd.Options
	stdout    io.Writer
	stderr    io.Writer
	newSource sourceFactory
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newCloudWatchSource)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, newSource sourceFactory) int {
	opts := cmd.DefaultOptions()
	if err := opts.LoadEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	a := &app{opts: opts, stdout: stdout, stderr: stderr, newSource: newSource}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "aws-log-lister",
		Short: "List CloudWatch Logs groups, streams and events",
		Long: `aws-log-lister pages through CloudWatch Logs and prints one line per
log group, log stream or log event. Throttled requests are retried after a
short pause until they succeed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err}
	})
	a.opts.BindGlobalFlags(root.PersistentFlags())

	groups := &cobra.Command{
		Use:   "groups",
		Short: "List log groups",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(c *cobra.Command, args []string) error {
			return a.withInspector(c.Context(), func(insp *inspector.Inspector) error {
				return insp.ListGroups(c.Context())
			})
		},
	}
	a.opts.BindGroupFlags(groups.Flags())

	streams := &cobra.Command{
		Use:   "streams <group>",
		Short: "List log streams of a log group",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(c *cobra.Command, args []string) error {
			return a.withInspector(c.Context(), func(insp *inspector.Inspector) error {
				return insp.ListStreams(c.Context(), args[0])
			})
		},
	}
	a.opts.BindStreamFlags(streams.Flags())

	events := &cobra.Command{
		Use:   "events <group>",
		Short: "List log events of every stream of a log group",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(c *cobra.Command, args []string) error {
			return a.withInspector(c.Context(), func(insp *inspector.Inspector) error {
				return insp.ListEvents(c.Context(), args[0], a.opts.Start, a.opts.End)
			})
		},
	}
	a.opts.BindEventFlags(events.Flags())

	root.AddCommand(groups, streams, events)
	return root
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := check(c, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// withInspector validates options, builds the client and inspector, runs
// fn and flushes buffered output.
func (a *app) withInspector(ctx context.Context, fn func(*inspector.Inspector) error) error {
	if err := a.opts.Validate(); err != nil {
		return &usageError{err}
	}
	cfg := a.opts.InspectorConfig()
	if a.opts.Match != "" {
		m, err := match.Compile(a.opts.Match)
		if err != nil {
			return &usageError{err}
		}
		cfg.Matcher = m
	}
	logger := cmd.NewLogger(a.stderr, a.opts.Debug)
	src, err := a.newSource(ctx, a.opts.AuthOptions())
	if err != nil {
		return fmt.Errorf("failed to create CloudWatch client: %w", err)
	}

	w := bufio.NewWriter(a.stdout)
	runErr := fn(inspector.New(src, w, logger, cfg))
	if err := w.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	var die *model.DataIntegrityError
	if errors.As(runErr, &die) {
		return fmt.Errorf("malformed response: %w", runErr)
	}
	return runErr
}
