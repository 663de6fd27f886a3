package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/log"
	"github.com/barkingbob/json-builder-app/profile"
	"github.com/barkingbob/json-builder-app/request"
	"github.com/barkingbob/json-builder-app/version"
)

// envPrefix namespaces the environment variables read by jsonbuilder.
const envPrefix = "JSONBUILDER_"

// settings are the defaults taken from the environment. Flags override them.
type settings struct {
	ConfigDir string `env:"CONFIG_DIR, default=config"`
}

type app struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
	cat       *catalog.Catalog
	profiler  *profile.Profiler
	log       *log.Config
	prof      *profile.Config
	req       *request.Config
	configDir string
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.DiscardHandler),
		log:    log.NewConfig(),
		prof:   profile.NewConfig(),
		req:    request.NewConfig(),
	}

	a.req.Catalog = a.catalog

	return a
}

func (a *app) execute(ctx context.Context, args []string, lookuper envconfig.Lookuper) error {
	var s settings

	lookuper = envconfig.PrefixLookuper(envPrefix, lookuper)

	err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &s, Lookuper: lookuper})
	if err != nil {
		return fmt.Errorf("process environment: %w", err)
	}

	if err := a.log.Process(ctx, lookuper); err != nil {
		return err
	}

	cmd := a.rootCmd(s)
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err = cmd.ExecuteContext(ctx)
	if a.profiler != nil {
		err = errors.Join(err, a.profiler.Stop())
	}

	return err
}

func (a *app) rootCmd(s settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jsonbuilder",
		Short: "Build request executor payloads",
		Long: `jsonbuilder builds JSON payloads for the request executor. It reads the
environments, roles, originators and SRVs from a configuration directory, and
derives the body of each request from the SRV's OpenAPI schema.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", s.ConfigDir,
		"directory holding the configuration documents")
	a.log.RegisterFlags(flags)
	a.prof.RegisterFlags(flags)

	for _, register := range []func(*cobra.Command) error{
		a.log.RegisterCompletions,
		a.prof.RegisterCompletions,
		func(cmd *cobra.Command) error {
			return cmd.RegisterFlagCompletionFunc("config-dir", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
				return nil, cobra.ShellCompDirectiveFilterDirs
			})
		},
	} {
		if err := register(rootCmd); err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		a.fieldsCmd(),
		a.srvsCmd(),
		a.requestCmd(a.buildCmd()),
		a.requestCmd(a.editCmd()),
		a.versionCmd(),
	)

	return rootCmd
}

// requestCmd binds the request selection flags to cmd.
func (a *app) requestCmd(cmd *cobra.Command) *cobra.Command {
	a.req.RegisterFlags(cmd.Flags())

	if err := a.req.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) setup() error {
	handler, err := a.log.NewHandler(a.stderr)
	if err != nil {
		return err
	}

	a.logger = slog.New(handler)

	a.profiler = a.prof.NewProfiler()

	return a.profiler.Start()
}

// catalog loads the configuration directory once.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}

	cat, err := catalog.Load(os.DirFS(a.configDir), catalog.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", a.configDir, err)
	}

	a.cat = cat

	return cat, nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
