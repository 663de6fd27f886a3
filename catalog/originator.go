package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Originator list column headers.
const (
	ColumnEnvironment = "Environment"
	ColumnRole        = "User Role"
	ColumnDUISVersion = "DUIS Version"
	ColumnName        = "originatorName"
)

// Originator maps an environment, role and DUIS version to the originator
// name used in request headers.
type Originator struct {
	Environment string
	Role        string
	DUISVersion string
	Name        string
}

// ParseOriginators reads the originator list. Rows whose column count
// differs from the header are skipped; values are trimmed.
func ParseOriginators(r io.Reader, logger *slog.Logger) ([]Originator, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidConfig, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	for _, want := range []string{ColumnEnvironment, ColumnRole, ColumnDUISVersion, ColumnName} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidConfig, want)
		}
	}

	var out []Originator

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			logger.Debug("skip originator row",
				slog.Int("line", line),
				slog.Int("columns", len(rec)),
			)

			continue
		}

		field := func(name string) string {
			return strings.TrimSpace(rec[cols[name]])
		}

		out = append(out, Originator{
			Environment: field(ColumnEnvironment),
			Role:        field(ColumnRole),
			DUISVersion: field(ColumnDUISVersion),
			Name:        field(ColumnName),
		})
	}

	return out, nil
}

// DUISVersions returns the distinct DUIS versions with an originator for env
// and role, in numeric order.
func (c *Catalog) DUISVersions(env, role string) []string {
	var versions []string

	for _, o := range c.Originators {
		if o.Environment == env && o.Role == role && !slices.Contains(versions, o.DUISVersion) {
			versions = append(versions, o.DUISVersion)
		}
	}

	slices.SortStableFunc(versions, compareVersions)

	return versions
}

// Originator returns the originator name for env, role and version.
func (c *Catalog) Originator(env, role, version string) (string, error) {
	for _, o := range c.Originators {
		if o.Environment == env && o.Role == role && o.DUISVersion == version && o.Name != "" {
			return o.Name, nil
		}
	}

	return "", fmt.Errorf("%w: originator for %s/%s/%s", ErrNotFound, env, role, version)
}

func compareVersions(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)

	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	}

	return 0
}
