// Package main is the hello command: it asks a running Greeter for a greeting,
// or formats one locally with --local.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/clients"
	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	grpcclient "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/grpc_client"
	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
)

const (
	defaultTarget  = "127.0.0.1:9000"
	defaultTimeout = 5 * time.Second
)

type options struct {
	target   string
	timeout  time.Duration
	confPath string
	local    bool
	verbose  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "hello [name]",
		Short: "Greet a name through the Greeter service",
		Long: "hello sends NAME to the Greeter service and prints the greeting.\n" +
			"The name is sent verbatim; omitting it greets the empty name.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			message, err := run(cmd.Context(), cmd, opts, name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), message)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.target, "target", "t", defaultTarget, "Greeter gRPC target (overrides GREETER_TARGET and the config file)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "per-call timeout")
	cmd.Flags().StringVar(&opts.confPath, "conf", "", "optional config path supplying client.target and client.timeout")
	cmd.Flags().BoolVar(&opts.local, "local", false, "format the greeting locally without calling the service")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log client diagnostics to stderr")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, name string) (string, error) {
	if opts.local {
		return services.FormatGreeting(name), nil
	}

	clientCfg, err := resolveClientConfig(cmd, opts)
	if err != nil {
		return "", err
	}

	logger := newLogger(cmd, opts.verbose)
	conn, cleanup, err := grpcclient.Dial(clientCfg, nil, nil, logger)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithTimeout(ctx, clientCfg.GetTimeout())
	defer cancel()

	return clients.NewGreeterRemote(conn, logger).SayHello(callCtx, name)
}

// resolveClientConfig layers built-in defaults, then loader.LoadClient
// (config file, .env and GREETER_TARGET), then flags set explicitly.
func resolveClientConfig(cmd *cobra.Command, opts *options) (*loader.Client, error) {
	cfg := &loader.Client{Target: defaultTarget, Timeout: loader.Duration{Duration: defaultTimeout}}
	loaded, err := loader.LoadClient(opts.confPath)
	if err != nil {
		return nil, err
	}
	if loaded.Target != "" {
		cfg.Target = loaded.Target
	}
	if loaded.Timeout.Duration > 0 {
		cfg.Timeout = loaded.Timeout
	}
	if cmd.Flags().Changed("target") {
		cfg.Target = opts.target
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = loader.Duration{Duration: opts.timeout}
	}
	if cfg.Timeout.Duration <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, verbose bool) log.Logger {
	level := log.LevelError
	if verbose {
		level = log.LevelDebug
	}
	return log.NewFilter(log.NewStdLogger(cmd.ErrOrStderr()), log.FilterLevel(level))
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hello:", err)
		os.Exit(1)
	}
}
