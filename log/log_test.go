package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  log.Level
		err   bool
	}{
		"error":            {input: "error", want: log.LevelError},
		"warn":             {input: "warn", want: log.LevelWarn},
		"warning alias":    {input: "warning", want: log.LevelWarn},
		"info":             {input: "info", want: log.LevelInfo},
		"debug":            {input: "debug", want: log.LevelDebug},
		"case insensitive": {input: "DEBUG", want: log.LevelDebug},
		"unknown":          {input: "trace", err: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)
			if tc.err {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  log.Format
		err   bool
	}{
		"json":             {input: "json", want: log.FormatJSON},
		"logfmt":           {input: "logfmt", want: log.FormatLogfmt},
		"text":             {input: "text", want: log.FormatText},
		"case insensitive": {input: "Text", want: log.FormatText},
		"unknown":          {input: "yaml", err: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(tc.input)
			if tc.err {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check  func(*testing.T, []byte)
		format log.Format
	}{
		"json": {
			format: log.FormatJSON,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				var entry map[string]any

				require.NoError(t, json.Unmarshal(out, &entry))
				assert.Equal(t, "selected SRV", entry["msg"])
				assert.Equal(t, "INFO", entry["level"])
				assert.Equal(t, "1.1.1", entry["srv"])
			},
		},
		"logfmt": {
			format: log.FormatLogfmt,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				assert.Contains(t, string(out), "level=INFO")
				assert.Contains(t, string(out), `msg="selected SRV"`)
				assert.Contains(t, string(out), "srv=1.1.1")
			},
		},
		"text": {
			format: log.FormatText,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				assert.Contains(t, string(out), "INFO")
				assert.Contains(t, string(out), "selected SRV")
				assert.Contains(t, string(out), "srv=1.1.1")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := log.NewHandler(&buf, log.LevelInfo, tc.format)
			require.NotNil(t, handler)

			slog.New(handler).Info("selected SRV", slog.String("srv", "1.1.1"))

			tc.check(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level, format string
		err           bool
	}{
		"valid":          {level: "warning", format: "json"},
		"invalid level":  {level: "loud", format: "json", err: true},
		"invalid format": {level: "info", format: "xml", err: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler, err := log.NewHandlerFromStrings(&buf, tc.level, tc.format)
			if tc.err {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				assert.Nil(t, handler)

				return
			}

			require.NoError(t, err)

			logger := slog.New(handler)
			logger.Info("filtered")
			logger.Warn("kept")

			assert.NotContains(t, buf.String(), "filtered")
			assert.Contains(t, buf.String(), "kept")
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		log   func(*slog.Logger)
		level log.Level
		want  bool
	}{
		"info passes info":    {level: log.LevelInfo, log: func(l *slog.Logger) { l.Info("m") }, want: true},
		"info blocks debug":   {level: log.LevelInfo, log: func(l *slog.Logger) { l.Debug("m") }},
		"debug passes debug":  {level: log.LevelDebug, log: func(l *slog.Logger) { l.Debug("m") }, want: true},
		"error blocks warn":   {level: log.LevelError, log: func(l *slog.Logger) { l.Warn("m") }},
		"error passes errors": {level: log.LevelError, log: func(l *slog.Logger) { l.Error("m") }, want: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, format := range []log.Format{log.FormatJSON, log.FormatText} {
				var buf bytes.Buffer

				tc.log(slog.New(log.NewHandler(&buf, tc.level, format)))

				if tc.want {
					assert.NotEmpty(t, buf.String(), format)
				} else {
					assert.Empty(t, buf.String(), format)
				}
			}
		})
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)

	for flag, want := range map[string][]string{
		"log-level":  log.GetAllLevelStrings(),
		"log-format": log.GetAllFormatStrings(),
	} {
		complete, ok := cmd.GetFlagCompletionFunc(flag)
		require.True(t, ok, flag)

		values, directive := complete(cmd, nil, "")
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		assert.Equal(t, want, values)
	}

	require.NoError(t, cmd.Flags().Parse([]string{"--log-level", "debug", "--log-format", "json"}))

	var buf bytes.Buffer

	handler, err := cfg.NewHandler(&buf)
	require.NoError(t, err)

	slog.New(handler).Debug("visible")
	assert.Contains(t, buf.String(), `"msg":"visible"`)
}

func TestConfigProcess(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	env := envconfig.MapLookuper(map[string]string{
		"APP_LOG_LEVEL":  "debug",
		"APP_LOG_FORMAT": "logfmt",
		"LOG_LEVEL":      "error",
	})
	require.NoError(t, cfg.Process(t.Context(), envconfig.PrefixLookuper("APP_", env)))

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "logfmt", cfg.Format)
	assert.Equal(t, "debug", cmd.Flags().Lookup("log-level").DefValue)

	require.NoError(t, cmd.Flags().Parse([]string{"--log-level", "warn"}))
	assert.Equal(t, "warn", cfg.Level, "flags override the environment")
}
