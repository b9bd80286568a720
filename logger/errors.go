package logger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownSeverity is returned when a severity name cannot be parsed.
	ErrUnknownSeverity = errors.New("unknown severity")
	// ErrUnknownColorMode is returned when a color mode name cannot be parsed.
	ErrUnknownColorMode = errors.New("unknown color mode")
	// ErrUnknownKind is returned when an exporter names a sink kind that
	// does not exist. Registration fails rather than degrading to console.
	ErrUnknownKind = errors.New("unknown exporter kind")
	// ErrInvalidExporter is returned for exporter configurations that are
	// missing a target, or for an empty exporter name.
	ErrInvalidExporter = errors.New("invalid exporter")
)

// ConfigurationError reports a bad setting or exporter definition.
type ConfigurationError struct {
	// Field is the setting or exporter name the error refers to.
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("logger: configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through the wrapper.
func (e *ConfigurationError) Cause() error { return e.Err }

// ResolutionError reports a deferred message part that failed.
type ResolutionError struct {
	// Index is the position of the failing part in the message.
	Index int
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("logger: resolving part %d: %v", e.Index, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Cause() error { return e.Err }

// SinkWriteError reports a failed write on a named exporter.
type SinkWriteError struct {
	// Exporter is the sink name, empty for the default sink.
	Exporter string
	Err      error
}

func (e *SinkWriteError) Error() string {
	if e.Exporter == "" {
		return fmt.Sprintf("logger: default sink: %v", e.Err)
	}
	return fmt.Sprintf("logger: exporter %q: %v", e.Exporter, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

func (e *SinkWriteError) Cause() error { return e.Err }
