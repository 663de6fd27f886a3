package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/barkingbob/json-builder-app/schemadoc"
)

// Configuration file names, relative to the configuration directory.
const (
	AppConfigFile  = "app-config.json"
	OriginatorFile = "OriginatorNameList.csv"
	SRVMatrixFile  = "srv-matrix-config.json"
	SchemaFile     = "openapi-adaptor-request-executor.json"
)

var (
	// ErrNotFound indicates a lookup with no matching entry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfig indicates a configuration file that cannot be read or
	// decoded.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Option configures [Load].
type Option func(*loader)

// WithLogger sets the logger used while loading.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

type loader struct {
	logger *slog.Logger
}

// Catalog holds every configuration document the request builder needs.
type Catalog struct {
	// Schema is the request executor's OpenAPI document.
	Schema      *schemadoc.Document
	App         AppConfig
	Originators []Originator
	SRVs        []SRV
}

// Load reads the configuration documents from fsys.
func Load(fsys fs.FS, opts ...Option) (*Catalog, error) {
	l := &loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	c := &Catalog{}

	if err := readJSON(fsys, AppConfigFile, &c.App); err != nil {
		return nil, err
	}

	if err := readJSON(fsys, SRVMatrixFile, &c.SRVs); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(fsys, OriginatorFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c.Originators, err = ParseOriginators(bytes.NewReader(data), l.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", OriginatorFile, err)
	}

	data, err = fs.ReadFile(fsys, SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c.Schema, err = schemadoc.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, SchemaFile, err)
	}

	l.logger.Debug("loaded configuration",
		slog.Int("environments", len(c.App.Environments)),
		slog.Int("roles", len(c.App.Roles)),
		slog.Int("originators", len(c.Originators)),
		slog.Int("srvs", len(c.SRVs)),
	)

	return c, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}

	return nil
}
