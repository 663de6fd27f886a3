package request

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/datapath"
	"github.com/barkingbob/json-builder-app/form"
)

// ErrInvalidOption indicates a malformed flag value.
var ErrInvalidOption = errors.New("invalid option")

// Flags holds CLI flag names for request selection, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	Environment string
	Role        string
	DUISVersion string
	SRV         string
	CV          string
	Target      string
	ExecuteAt   string
	Set         string
	Add         string
}

// Config holds CLI flag values for request selection.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewBuilder] to create a [Builder] with
// the selections applied.
type Config struct {
	// Catalog loads the configuration for shell completions.
	Catalog     func() (*catalog.Catalog, error)
	Flags       Flags
	Environment string
	Role        string
	DUISVersion string
	SRV         string
	Target      string
	ExecuteAt   string
	Set         []string
	Add         []string
	CV          int
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Environment: "env",
		Role:        "role",
		DUISVersion: "duis",
		SRV:         "srv",
		CV:          "cv",
		Target:      "target",
		ExecuteAt:   "execute-at",
		Set:         "set",
		Add:         "add",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds request selection flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Environment, c.Flags.Environment, "e", "",
		"environment name")
	flags.StringVarP(&c.Role, c.Flags.Role, "r", "",
		"user role abbreviation or full name")
	flags.StringVar(&c.DUISVersion, c.Flags.DUISVersion, "",
		"DUIS version (defaults to the latest available)")
	flags.StringVarP(&c.SRV, c.Flags.SRV, "s", "",
		"SRV code, e.g. 1.1.1")
	flags.IntVar(&c.CV, c.Flags.CV, 0,
		"command variant (defaults to the only one, if the SRV has one)")
	flags.StringVarP(&c.Target, c.Flags.Target, "t", "",
		"target device GUID (command variant 8 uses the environment's target)")
	flags.StringVar(&c.ExecuteAt, c.Flags.ExecuteAt, "",
		"future execution time, RFC 3339 or YYYY-MM-DDTHH:MM[:SS] local time")
	flags.StringArrayVar(&c.Set, c.Flags.Set, nil,
		"set a body field, as path=value (repeatable)")
	flags.StringArrayVar(&c.Add, c.Flags.Add, nil,
		"append an item to a body array, by path (repeatable)")
}

// RegisterCompletions registers shell completions for request selection
// flags on cmd. Completions read the configuration through c.Catalog.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	complete := func(list func(*Config, *catalog.Catalog) []string) cobra.CompletionFunc {
		return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			if c.Catalog == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			cat, err := c.Catalog()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			return list(c, cat), cobra.ShellCompDirectiveNoFileComp
		}
	}

	completions := map[string]cobra.CompletionFunc{
		c.Flags.Environment: complete(func(_ *Config, cat *catalog.Catalog) []string {
			return cat.EnvironmentNames()
		}),
		c.Flags.Role: complete(func(_ *Config, cat *catalog.Catalog) []string {
			return cat.RoleNames()
		}),
		c.Flags.DUISVersion: complete(func(c *Config, cat *catalog.Catalog) []string {
			role, err := cat.Role(c.Role)
			if err != nil {
				return nil
			}

			return cat.DUISVersions(c.Environment, role.Abbreviation)
		}),
		c.Flags.SRV: complete(func(c *Config, cat *catalog.Catalog) []string {
			role, err := cat.Role(c.Role)
			if err != nil {
				return nil
			}

			var out []string
			for _, s := range cat.EligibleSRVs(role) {
				out = append(out, s.Code+"\t"+s.Name)
			}

			return out
		}),
		c.Flags.CV: complete(func(c *Config, cat *catalog.Catalog) []string {
			s, err := cat.SRV(c.SRV)
			if err != nil {
				return nil
			}

			var out []string
			for _, cv := range s.CommandVariants {
				out = append(out, strconv.Itoa(cv))
			}

			return out
		}),
	}

	for _, flag := range slices.Sorted(maps.Keys(completions)) {
		err := cmd.RegisterFlagCompletionFunc(flag, completions[flag])
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Target, c.Flags.ExecuteAt, c.Flags.Set, c.Flags.Add} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewBuilder creates a [Builder] over cat and applies every selection and
// body edit held by c. Selections stop at the first one left empty; the
// returned builder can then be completed interactively.
func (c *Config) NewBuilder(cat *catalog.Catalog, opts ...Option) (*Builder, error) {
	b := New(cat, opts...)

	if err := c.selectHeader(b); err != nil {
		return b, err
	}

	if err := c.applyEdits(b); err != nil {
		return b, err
	}

	return b, nil
}

func (c *Config) selectHeader(b *Builder) error {
	if c.Environment == "" {
		return nil
	}

	if err := b.SelectEnvironment(c.Environment); err != nil {
		return err
	}

	if c.Role == "" {
		return nil
	}

	if err := b.SelectRole(c.Role); err != nil {
		return err
	}

	version := c.DUISVersion
	if version == "" {
		versions := b.DUISVersions()
		if len(versions) == 0 {
			return nil
		}

		version = versions[len(versions)-1]
	}

	if err := b.SelectDUISVersion(version); err != nil {
		return err
	}

	if c.SRV == "" {
		return nil
	}

	if err := b.SelectSRV(c.SRV); err != nil {
		return err
	}

	cv := c.CV
	if cv == 0 && len(b.CommandVariants()) == 1 {
		cv = b.CommandVariants()[0]
	}

	if cv != 0 {
		if err := b.SelectCV(cv); err != nil {
			return err
		}
	}

	if c.Target != "" {
		if err := b.SetTarget(c.Target); err != nil {
			return err
		}
	}

	if c.ExecuteAt != "" {
		if err := b.SetExecutionTime(c.ExecuteAt); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) applyEdits(b *Builder) error {
	if len(c.Add) == 0 && len(c.Set) == 0 {
		return nil
	}

	if b.SRV() == nil {
		return fmt.Errorf("%w: --%s and --%s need an SRV", ErrInvalidOption, c.Flags.Set, c.Flags.Add)
	}

	for _, raw := range c.Add {
		p, err := FieldPath(raw)
		if err != nil {
			return err
		}

		if _, _, err := b.Form().AddItem(p, nil); err != nil {
			return fmt.Errorf("--%s %s: %w", c.Flags.Add, raw, err)
		}
	}

	for _, raw := range c.Set {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("%w: --%s %q: expected path=value", ErrInvalidOption, c.Flags.Set, raw)
		}

		p, err := FieldPath(name)
		if err != nil {
			return err
		}

		if err := b.Form().Apply(p, value); err != nil {
			return fmt.Errorf("--%s %s: %w", c.Flags.Set, raw, err)
		}
	}

	return nil
}

// FieldPath parses a body field path. The leading body section key may be
// left out: "tariffs[0].price" and "bodyParameters.tariffs[0].price" name the
// same field.
func FieldPath(s string) (datapath.Path, error) {
	p, err := datapath.Parse(strings.TrimSpace(s))
	if err != nil {
		return datapath.Path{}, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	if p.HasPrefix(form.Root()) {
		return p, nil
	}

	p, err = datapath.FromSteps(append(form.Root().Steps(), p.Steps()...)...)
	if err != nil {
		return datapath.Path{}, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	return p, nil
}
