package logger

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Severity is an RFC-5424 severity. Lower values are more severe.
type Severity int

const (
	// Emergency: the system is unusable.
	Emergency Severity = iota
	// Alert: action must be taken immediately.
	Alert
	// Critical conditions.
	Critical
	// Error conditions.
	Error
	// Warning conditions.
	Warning
	// Notice: normal but significant condition.
	Notice
	// Informational messages.
	Informational
	// Debug-level messages.
	Debug
)

var severityNames = [...]string{
	Emergency:     "EMERGENCY",
	Alert:         "ALERT",
	Critical:      "CRITICAL",
	Error:         "ERROR",
	Warning:       "WARNING",
	Notice:        "NOTICE",
	Informational: "INFORMATIONAL",
	Debug:         "DEBUG",
}

// AllSeverities returns every severity, most severe first.
func AllSeverities() []Severity {
	return []Severity{
		Emergency,
		Alert,
		Critical,
		Error,
		Warning,
		Notice,
		Informational,
		Debug,
	}
}

// Valid reports whether s is one of the eight defined severities.
func (s Severity) Valid() bool {
	return s >= Emergency && s <= Debug
}

func (s Severity) String() string {
	if !s.Valid() {
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Allows reports whether a message at level passes a threshold of s.
// A level passes when it is equally or more severe than the threshold.
func (s Severity) Allows(level Severity) bool {
	return level <= s
}

// ParseSeverity parses a severity name, a common alias or a numeric code.
// Matching is case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EMERGENCY", "EMERG", "0":
		return Emergency, nil
	case "ALERT", "1":
		return Alert, nil
	case "CRITICAL", "CRIT", "2":
		return Critical, nil
	case "ERROR", "ERR", "3":
		return Error, nil
	case "WARNING", "WARN", "4":
		return Warning, nil
	case "NOTICE", "5":
		return Notice, nil
	case "INFORMATIONAL", "INFO", "6":
		return Informational, nil
	case "DEBUG", "7":
		return Debug, nil
	}
	return Informational, &ConfigurationError{
		Field: "level",
		Err:   errors.Wrapf(ErrUnknownSeverity, "%q", s),
	}
}

// MarshalYAML encodes the severity by name.
func (s Severity) MarshalYAML() (interface{}, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrUnknownSeverity, "%d", int(s))
	}
	return s.String(), nil
}

// UnmarshalYAML accepts anything ParseSeverity accepts.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	level, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = level
	return nil
}

// Group is a dispatch group: a bucket of severities that share a
// sink method and a color.
type Group int

const (
	// GroupInformational is the default group, also used for unknown severities.
	GroupInformational Group = iota
	GroupDebug
	GroupNotice
	GroupWarning
	GroupError
)

func (g Group) String() string {
	switch g {
	case GroupDebug:
		return "debug"
	case GroupNotice:
		return "notice"
	case GroupWarning:
		return "warning"
	case GroupError:
		return "error"
	default:
		return "informational"
	}
}

// Classify maps a severity to its dispatch group. The mapping is total:
// values outside the defined range fall into GroupInformational.
func Classify(level Severity) Group {
	switch level {
	case Emergency, Alert, Critical, Error:
		return GroupError
	case Warning:
		return GroupWarning
	case Notice:
		return GroupNotice
	case Debug:
		return GroupDebug
	default:
		return GroupInformational
	}
}

// Color returns the display color of the group.
func (g Group) Color() Color {
	switch g {
	case GroupError:
		return Red
	case GroupWarning:
		return Yellow
	case GroupNotice:
		return Cyan
	default:
		return Blue
	}
}

// SeverityForStatus maps an HTTP status code to a severity.
// 5xx -> ERROR, 4xx -> WARNING, anything else -> INFORMATIONAL.
func SeverityForStatus(code int) Severity {
	switch {
	case code >= 500:
		return Error
	case code >= 400:
		return Warning
	default:
		return Informational
	}
}
