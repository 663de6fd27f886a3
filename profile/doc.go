// Package profile writes pprof profiles for a CLI run.
//
// Register the flags on the root command, start the [Profiler] before the
// command runs and stop it after:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	p := cfg.NewProfiler()
//
//	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return p.Start() }
//	err := rootCmd.Execute()
//	err = errors.Join(err, p.Stop())
package profile
