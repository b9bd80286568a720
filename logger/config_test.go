package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.DefaultSink)
	assert.Equal(t, ColorAlways, s.ColorMode)
	assert.Equal(t, Informational, s.Level)
	assert.True(t, s.Verbose)
	assert.True(t, s.Header)
	assert.Empty(t, s.Sinks)
}

func TestParseColorMode(t *testing.T) {
	tests := map[string]ColorMode{
		"always":       ColorAlways,
		"TRUE":         ColorAlways,
		"sink-default": ColorSinkDefault,
		"auto":         ColorSinkDefault,
		"never":        ColorNever,
		"off":          ColorNever,
	}
	for in, want := range tests {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, want, must(ParseColorMode(want.String())))
	}

	_, err := ParseColorMode("rainbow")
	assert.True(t, errors.Is(err, ErrUnknownColorMode))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`
level: debug
colorMode: never
header: false
sinks:
  audit:
    kind: file
    stdout: /var/log/app.log
  mirror:
    kind: logrus
    stdout: stderr
`))
	require.NoError(t, err)

	assert.Equal(t, Debug, s.Level)
	assert.Equal(t, ColorNever, s.ColorMode)
	assert.False(t, s.Header)
	assert.True(t, s.DefaultSink, "omitted keys keep their defaults")
	assert.True(t, s.Verbose)
	require.Len(t, s.Sinks, 2)
	assert.Equal(t, ExporterConfig{Kind: KindFile, Stdout: "/var/log/app.log"}, s.Sinks["audit"])
	assert.Equal(t, ExporterConfig{Kind: KindLogrus, Stdout: "stderr"}, s.Sinks["mirror"])
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"bad level", "level: loud\n", ErrUnknownSeverity},
		{"bad color", "colorMode: rainbow\n", ErrUnknownColorMode},
		{"bad kind", "sinks:\n  x:\n    kind: carrier-pigeon\n", ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.yaml))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: warning\nverbose: false\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Warning, s.Level)
	assert.False(t, s.Verbose)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWithEnv(t *testing.T) {
	t.Setenv(EnvLevel, "crit")
	t.Setenv(EnvColor, "never")
	t.Setenv(EnvVerbose, "false")

	s, err := DefaultSettings().WithEnv()
	require.NoError(t, err)
	assert.Equal(t, Critical, s.Level)
	assert.Equal(t, ColorNever, s.ColorMode)
	assert.False(t, s.Verbose)
}

func TestWithEnvUnsetKeepsSettings(t *testing.T) {
	t.Setenv(EnvLevel, "")
	t.Setenv(EnvColor, "")
	t.Setenv(EnvVerbose, "")

	in := DefaultSettings()
	in.Level = Notice
	s, err := in.WithEnv()
	require.NoError(t, err)
	assert.Equal(t, in, s)
}

func TestWithEnvErrors(t *testing.T) {
	t.Setenv(EnvVerbose, "sometimes")

	_, err := DefaultSettings().WithEnv()
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "verbose", cerr.Field)
}
