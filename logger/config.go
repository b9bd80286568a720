package logger

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ColorMode controls how colors reach color-capable sinks.
type ColorMode int

const (
	// ColorAlways wraps every resolved part in its group color.
	ColorAlways ColorMode = iota
	// ColorSinkDefault leaves parts untouched and lets each sink decide
	// (console sinks keep escapes only on a terminal).
	ColorSinkDefault
	// ColorNever strips escapes, including ones embedded in literal parts.
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorSinkDefault:
		return "sink-default"
	case ColorNever:
		return "never"
	default:
		return "ColorMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseColorMode accepts always/sink-default/never and the boolean-ish
// spellings true/default/false.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "true", "on", "yes":
		return ColorAlways, nil
	case "sink-default", "default", "auto":
		return ColorSinkDefault, nil
	case "never", "false", "off", "no":
		return ColorNever, nil
	}
	return ColorAlways, &ConfigurationError{
		Field: "colorMode",
		Err:   errors.Wrapf(ErrUnknownColorMode, "%q", s),
	}
}

func (m ColorMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

func (m *ColorMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	mode, err := ParseColorMode(raw)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Settings configures an Engine. Start from DefaultSettings; the zero
// value disables the default sink, verbose debug and the line header.
type Settings struct {
	// DefaultSink dispatches to a console sink on the process's stdout/stderr
	// in addition to the named sinks.
	// Default: true
	DefaultSink bool `yaml:"defaultSink"`
	// ColorMode decides whether console sinks receive colorized parts.
	// Default: ColorAlways
	ColorMode ColorMode `yaml:"colorMode"`
	// Level is the threshold: messages less severe than Level are dropped
	// before any deferred part runs.
	// Default: Informational
	Level Severity `yaml:"level"`
	// Verbose routes DEBUG messages to the sink's Trace method instead of Debug.
	// Default: true
	Verbose bool `yaml:"verbose"`
	// Header prefixes each line on text sinks with "[<s>.<ns>] <SEVERITY>:".
	// Structured sinks never get the header.
	// Default: true
	Header bool `yaml:"header"`
	// Sinks are registered at construction, in name order.
	// Default: none
	Sinks map[string]ExporterConfig `yaml:"sinks"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DefaultSink: true,
		ColorMode:   ColorAlways,
		Level:       Informational,
		Verbose:     true,
		Header:      true,
	}
}

// ParseSettings decodes YAML over DefaultSettings, so omitted keys keep
// their defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "logger: parse settings")
	}
	return s, nil
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "logger: read settings %s", path)
	}
	return ParseSettings(data)
}

// Environment variables honored by WithEnv.
const (
	EnvLevel   = "LOGGER_LEVEL"
	EnvColor   = "LOGGER_COLOR"
	EnvVerbose = "LOGGER_VERBOSE"
)

// WithEnv returns s with LOGGER_LEVEL, LOGGER_COLOR and LOGGER_VERBOSE
// applied on top. Unset or empty variables leave the setting alone.
func (s Settings) WithEnv() (Settings, error) {
	if v := os.Getenv(EnvLevel); v != "" {
		level, err := ParseSeverity(v)
		if err != nil {
			return s, err
		}
		s.Level = level
	}
	if v := os.Getenv(EnvColor); v != "" {
		mode, err := ParseColorMode(v)
		if err != nil {
			return s, err
		}
		s.ColorMode = mode
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return s, &ConfigurationError{Field: "verbose", Err: errors.Wrapf(err, "%s=%q", EnvVerbose, v)}
		}
		s.Verbose = verbose
	}
	return s, nil
}
