package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling, allowing callers to customize
// flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPU    string
	Heap   string
	Allocs string
}

// Config holds profile output paths. An empty path disables that profile.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags  Flags
	CPU    string
	Heap   string
	Allocs string
}

// NewConfig creates a new [Config] with default flag names and every profile
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			CPU:    "cpu-profile",
			Heap:   "heap-profile",
			Allocs: "allocs-profile",
		},
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPU, c.Flags.CPU, "", "write CPU profile to file")
	flags.StringVar(&c.Heap, c.Flags.Heap, "", "write heap profile to file on exit")
	flags.StringVar(&c.Allocs, c.Flags.Allocs, "", "write allocs profile to file on exit")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Every flag completes to files with a .prof extension.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	profFiles := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"prof"}, cobra.ShellCompDirectiveFilterFileExt
	}

	for _, name := range []string{c.Flags.CPU, c.Flags.Heap, c.Flags.Allocs} {
		err := cmd.RegisterFlagCompletionFunc(name, profFiles)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// NewProfiler creates a [Profiler] writing the profiles enabled in c.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{cfg: *c}
}
