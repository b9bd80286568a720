package logger

import (
	"fmt"
	"time"
)

// Prompter asks the user a question and returns the typed answer.
// Implementations may block; the log call that triggered the question
// waits for the answer.
type Prompter interface {
	Ask(question string) (string, error)
}

// FormatterContext is handed to every deferred part when it is resolved.
type FormatterContext struct {
	// Level is the severity of the message being resolved.
	Level Severity
	// Started is the time the engine was created.
	Started time.Time
	// Elapsed is the time since Started at resolution.
	Elapsed time.Duration
	// Colorizer decorates text with ANSI colors.
	Colorizer *Colorizer
	// Prompter is nil unless the engine was given one.
	Prompter Prompter
}

// Producer computes the text of a deferred part.
type Producer func(FormatterContext) (string, error)

type partKind uint8

const (
	literalPart partKind = iota
	deferredPart
)

// Part is one element of a log message: either literal text or a
// producer that is run only if the message passes the threshold.
type Part struct {
	kind    partKind
	text    string
	produce Producer
}

// Text returns a literal part.
func Text(s string) Part {
	return Part{kind: literalPart, text: s}
}

// Textf returns a literal part formatted with fmt.Sprintf.
func Textf(format string, args ...any) Part {
	return Text(fmt.Sprintf(format, args...))
}

// Value returns a literal part holding fmt.Sprint(v).
func Value(v any) Part {
	return Text(fmt.Sprint(v))
}

// Defer returns a part whose text is computed by p at resolution time.
// A nil producer resolves to the empty string.
func Defer(p Producer) Part {
	return Part{kind: deferredPart, produce: p}
}

// Lazy returns a deferred part for a producer that needs no context
// and cannot fail.
func Lazy(fn func() string) Part {
	return Defer(func(FormatterContext) (string, error) {
		return fn(), nil
	})
}

// Deferred reports whether the part is computed at resolution time.
func (p Part) Deferred() bool {
	return p.kind == deferredPart
}

// Texts converts plain strings into literal parts.
func Texts(ss ...string) []Part {
	parts := make([]Part, len(ss))
	for i, s := range ss {
		parts[i] = Text(s)
	}
	return parts
}

// Resolve turns parts into strings, in order. Each deferred part is run
// exactly once with a context made by newContext. The first producer
// failure stops resolution and is returned as a *ResolutionError.
func Resolve(parts []Part, newContext func() FormatterContext) ([]string, error) {
	out := make([]string, len(parts))
	for i, p := range parts {
		switch p.kind {
		case literalPart:
			out[i] = p.text
		case deferredPart:
			if p.produce == nil {
				continue
			}
			s, err := p.produce(newContext())
			if err != nil {
				return nil, &ResolutionError{Index: i, Err: err}
			}
			out[i] = s
		}
	}
	return out, nil
}
