package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
)

// Profiler writes the profiles enabled in a [Config].
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpu *os.File
	cfg Config
}

// Start begins CPU profiling when it is enabled. Call [Profiler.Stop] before
// the program exits.
func (p *Profiler) Start() error {
	if p.cfg.CPU == "" {
		return nil
	}

	f, err := os.Create(p.cfg.CPU) //nolint:gosec // Path comes from a CLI flag.
	if err != nil {
		return fmt.Errorf("create CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		return errors.Join(fmt.Errorf("start CPU profile: %w", err), f.Close())
	}

	p.cpu = f

	return nil
}

// Stop ends CPU profiling and writes the heap and allocs snapshots. It is
// safe to call without a prior Start.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpu != nil {
		pprof.StopCPUProfile()

		if err := p.cpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}

		p.cpu = nil
	}

	for name, path := range map[string]string{"heap": p.cfg.Heap, "allocs": p.cfg.Allocs} {
		if path == "" {
			continue
		}

		if err := writeSnapshot(name, path); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeSnapshot(name, path string) error {
	f, err := os.Create(path) //nolint:gosec // Path comes from a CLI flag.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = pprof.Lookup(name).WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s profile: %w", name, err)
	}

	return nil
}
