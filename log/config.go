package log

import (
	"cmp"
	"context"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the CLI flags of a [Config].
type Flags struct {
	Level  string
	Format string
}

// NewConfig creates a new [Config] using these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds the log level and format chosen on the command line or in
// the environment.
//
// Call [Config.Process] before [Config.RegisterFlags] so environment values
// become the flag defaults.
type Config struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT"`
	Flags  Flags
}

// NewConfig returns a [Config] with the flags --log-level and --log-format.
func NewConfig() *Config {
	f := Flags{
		Level:  "log-level",
		Format: "log-format",
	}

	return f.NewConfig()
}

// Process reads LOG_LEVEL and LOG_FORMAT from l. Wrap l with
// [envconfig.PrefixLookuper] to namespace the variables.
func (c *Config) Process(ctx context.Context, l envconfig.Lookuper) error {
	err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: c, Lookuper: l})
	if err != nil {
		return fmt.Errorf("%w: log environment: %w", ErrInvalidArgument, err)
	}

	return nil
}

// RegisterFlags adds the logging flags to flags. Values already set on c are
// kept as the defaults.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, cmp.Or(c.Level, string(LevelInfo)),
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, cmp.Or(c.Format, string(FormatText)),
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
}

// RegisterCompletions registers shell completions for the logging flags.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// NewHandler creates a [Handler] writing to w at the configured level and
// format.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
