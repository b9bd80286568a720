package logger

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Engine formats leveled messages and dispatches them to its sinks.
//
// Log calls may run concurrently. Registry changes (RegisterExporter,
// UnregisterExporter, Close) are safe to call, but a sink removed while
// a message is in flight may still receive that message.
type Engine struct {
	mu sync.RWMutex

	level     Severity
	verbose   bool
	colorMode ColorMode
	header    bool

	// defaultSink is dispatched to first; it is not part of sinks.
	defaultSink *exporter
	sinks       map[string]*exporter
	order       []string

	stdout    io.Writer
	stderr    io.Writer
	now       func() time.Time
	started   time.Time
	colorizer *Colorizer
	prompter  Prompter
}

// exporter is a registered sink.
type exporter struct {
	name    string
	kind    Kind
	handler Handler
	// cfg is set when the engine built the handler and may rebuild it.
	cfg *ExporterConfig
}

func (x *exporter) close() error {
	if x.cfg == nil {
		return nil
	}
	if c, ok := x.handler.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithPrompter makes p available to deferred parts through FormatterContext.
func WithPrompter(p Prompter) Option {
	return func(e *Engine) { e.prompter = p }
}

// WithClock replaces time.Now for elapsed-time computation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStdout sets the standard output of the default sink.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStderr sets the error output of the default sink.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.stderr = w }
}

// New builds an engine from settings. Sinks in settings.Sinks are
// registered in name order; the first failure is returned and nothing
// stays open.
func New(settings Settings, opts ...Option) (*Engine, error) {
	e := &Engine{
		level:     settings.Level,
		verbose:   settings.Verbose,
		colorMode: settings.ColorMode,
		header:    settings.Header,
		sinks:     make(map[string]*exporter),
		now:       time.Now,
		colorizer: NewColorizer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.started = e.now()

	if settings.DefaultSink {
		if err := e.SetDefaultSink(true); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(settings.Sinks))
	for name := range settings.Sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.RegisterExporter(name, settings.Sinks[name]); err != nil {
			_ = e.Close()
			return nil, err
		}
	}
	return e, nil
}

// Started returns the time the engine was created.
func (e *Engine) Started() time.Time {
	return e.started
}

// Colorizer returns the colorizer handed to deferred parts.
func (e *Engine) Colorizer() *Colorizer {
	return e.colorizer
}

// --- Settings ---

// SetLevel changes the threshold.
func (e *Engine) SetLevel(level Severity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = level
}

// Level returns the threshold.
func (e *Engine) Level() Severity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level
}

// SetVerbose toggles routing of DEBUG messages to Trace.
func (e *Engine) SetVerbose(verbose bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.verbose = verbose
}

// Verbose reports whether DEBUG messages go to Trace.
func (e *Engine) Verbose() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.verbose
}

// SetHeader toggles the "[<s>.<ns>] <SEVERITY>:" header on text sinks.
func (e *Engine) SetHeader(header bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.header = header
}

// SetColorMode changes the color mode. Console sinks built by the engine
// are rebuilt so they see the new mode; logrus sinks keep the formatter
// they were registered with.
func (e *Engine) SetColorMode(mode ColorMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.colorMode == mode {
		return nil
	}
	e.colorMode = mode

	rebuild := func(x *exporter) error {
		if x == nil || x.cfg == nil || x.kind != KindConsole {
			return nil
		}
		h, err := NewHandler(*x.cfg, HandlerOptions{ColorMode: mode})
		if err != nil {
			return err
		}
		x.handler = h
		return nil
	}
	err := rebuild(e.defaultSink)
	for _, name := range e.order {
		err = multierr.Append(err, rebuild(e.sinks[name]))
	}
	return err
}

// ColorMode returns the color mode.
func (e *Engine) ColorMode() ColorMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.colorMode
}

// SetDefaultSink adds or removes the console sink on the engine's
// stdout/stderr. The default sink has no name and cannot collide with
// registered ones.
func (e *Engine) SetDefaultSink(enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !enabled {
		e.defaultSink = nil
		return nil
	}
	if e.defaultSink != nil {
		return nil
	}
	cfg := ExporterConfig{Kind: KindConsole, StdoutWriter: e.stdout, StderrWriter: e.stderr}
	h, err := NewHandler(cfg, HandlerOptions{ColorMode: e.colorMode})
	if err != nil {
		return err
	}
	e.defaultSink = &exporter{kind: KindConsole, handler: h, cfg: &cfg}
	return nil
}

// --- Registry ---

// RegisterExporter builds a sink from cfg and registers it under name,
// replacing (and closing) any sink of the same name.
func (e *Engine) RegisterExporter(name string, cfg ExporterConfig) error {
	if name == "" {
		return &ConfigurationError{Field: "name", Err: errors.Wrap(ErrInvalidExporter, "empty exporter name")}
	}
	// Built under the lock: the handler must match e.colorMode.
	e.mu.Lock()
	h, err := NewHandler(cfg, HandlerOptions{ColorMode: e.colorMode})
	if err != nil {
		e.mu.Unlock()
		return errors.Wrapf(err, "register %q", name)
	}
	old := e.registerLocked(&exporter{name: name, kind: cfg.Kind, handler: h, cfg: &cfg})
	e.mu.Unlock()

	if old != nil {
		return old.close()
	}
	return nil
}

// RegisterHandler registers a caller-built handler. kind decides whether
// the engine sends colors to it. The engine never closes h.
func (e *Engine) RegisterHandler(name string, kind Kind, h Handler) error {
	if name == "" || h == nil {
		return &ConfigurationError{Field: "name", Err: errors.Wrapf(ErrInvalidExporter, "handler %q", name)}
	}
	e.mu.Lock()
	old := e.registerLocked(&exporter{name: name, kind: kind, handler: h})
	e.mu.Unlock()

	if old != nil {
		return old.close()
	}
	return nil
}

// registerLocked stores x and returns the sink it replaced, if any.
func (e *Engine) registerLocked(x *exporter) *exporter {
	old := e.sinks[x.name]
	e.sinks[x.name] = x
	if old == nil {
		e.order = append(e.order, x.name)
	}
	return old
}

// UnregisterExporter removes the named sink and closes files the engine
// opened for it. Unknown names are ignored.
func (e *Engine) UnregisterExporter(name string) error {
	e.mu.Lock()
	x, ok := e.sinks[name]
	if ok {
		delete(e.sinks, name)
		for i, n := range e.order {
			if n == name {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()

	if !ok {
		return nil
	}
	return x.close()
}

// Exporters returns the registered sink names in registration order.
// The default sink is not listed.
func (e *Engine) Exporters() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

// Close unregisters every sink, including the default one.
func (e *Engine) Close() error {
	e.mu.Lock()
	sinks := make([]*exporter, 0, len(e.order))
	for _, name := range e.order {
		sinks = append(sinks, e.sinks[name])
	}
	e.sinks = make(map[string]*exporter)
	e.order = nil
	e.defaultSink = nil
	e.mu.Unlock()

	var err error
	for _, x := range sinks {
		err = multierr.Append(err, x.close())
	}
	return err
}

// --- Dispatch ---

// dispatch is the per-call view of the engine state.
type dispatch struct {
	level     Severity
	verbose   bool
	colorMode ColorMode
	header    bool
	sinks     []exporter
}

func (e *Engine) snapshot() dispatch {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d := dispatch{
		level:     e.level,
		verbose:   e.verbose,
		colorMode: e.colorMode,
		header:    e.header,
		sinks:     make([]exporter, 0, len(e.order)+1),
	}
	if e.defaultSink != nil {
		d.sinks = append(d.sinks, *e.defaultSink)
	}
	for _, name := range e.order {
		d.sinks = append(d.sinks, *e.sinks[name])
	}
	return d
}

func (e *Engine) context(level Severity) FormatterContext {
	return FormatterContext{
		Level:     level,
		Started:   e.started,
		Elapsed:   e.now().Sub(e.started),
		Colorizer: e.colorizer,
		Prompter:  e.prompter,
	}
}

// Log dispatches a message at level to every sink.
//
// Messages less severe than the threshold return immediately and their
// deferred parts never run. Severities outside EMERGENCY..DEBUG are gated
// as INFORMATIONAL, the group they are dispatched with.
//
// Otherwise every deferred part runs exactly once, however many sinks
// there are. A failing part aborts the call before any sink is written. A failing sink does not stop delivery to
// the others; all sink failures are returned together.
func (e *Engine) Log(level Severity, parts ...Part) error {
	d := e.snapshot()
	gate := level
	if !gate.Valid() {
		gate = Informational
	}
	if !d.level.Allows(gate) || len(d.sinks) == 0 {
		return nil
	}

	resolved, err := Resolve(parts, func() FormatterContext { return e.context(level) })
	if err != nil {
		return err
	}

	group := Classify(level)
	var head string
	if d.header {
		elapsed := e.now().Sub(e.started)
		head = fmt.Sprintf("[%d.%09d] %s:", int64(elapsed/time.Second), int64(elapsed%time.Second), level)
	}

	for _, x := range d.sinks {
		out := e.decorate(x.kind, d.colorMode, group, resolved)
		if d.header && !isStructured(x.handler) {
			out = append([]string{head}, out...)
		}
		if werr := route(x.handler, group, d.verbose, out); werr != nil {
			err = multierr.Append(err, &SinkWriteError{Exporter: x.name, Err: werr})
		}
	}
	return err
}

// decorate applies or strips colors. The two never happen on the same
// sequence.
func (e *Engine) decorate(kind Kind, mode ColorMode, group Group, parts []string) []string {
	if !kind.colorCapable() {
		return stripAll(parts)
	}
	switch mode {
	case ColorAlways:
		return colorizeAll(e.colorizer, group.Color(), parts)
	case ColorNever:
		return stripAll(parts)
	default:
		return append([]string(nil), parts...)
	}
}

func isStructured(h Handler) bool {
	s, ok := h.(Structured)
	return ok && s.Structured()
}

func route(h Handler, group Group, verbose bool, parts []string) error {
	switch group {
	case GroupError:
		return h.Error(parts...)
	case GroupWarning:
		return h.Warn(parts...)
	case GroupNotice:
		return h.Info(parts...)
	case GroupDebug:
		if verbose {
			return h.Trace(parts...)
		}
		return h.Debug(parts...)
	default:
		return h.Log(parts...)
	}
}

// Logf logs a single literal part formatted with fmt.Sprintf.
func (e *Engine) Logf(level Severity, format string, args ...any) error {
	return e.Log(level, Textf(format, args...))
}

func (e *Engine) Emergency(parts ...Part) error { return e.Log(Emergency, parts...) }
func (e *Engine) Alert(parts ...Part) error     { return e.Log(Alert, parts...) }
func (e *Engine) Critical(parts ...Part) error  { return e.Log(Critical, parts...) }
func (e *Engine) Error(parts ...Part) error     { return e.Log(Error, parts...) }
func (e *Engine) Warning(parts ...Part) error   { return e.Log(Warning, parts...) }
func (e *Engine) Notice(parts ...Part) error    { return e.Log(Notice, parts...) }
func (e *Engine) Info(parts ...Part) error      { return e.Log(Informational, parts...) }
func (e *Engine) Debug(parts ...Part) error     { return e.Log(Debug, parts...) }

func (e *Engine) Emergencyf(format string, args ...any) error {
	return e.Logf(Emergency, format, args...)
}

func (e *Engine) Alertf(format string, args ...any) error {
	return e.Logf(Alert, format, args...)
}

func (e *Engine) Criticalf(format string, args ...any) error {
	return e.Logf(Critical, format, args...)
}

func (e *Engine) Errorf(format string, args ...any) error {
	return e.Logf(Error, format, args...)
}

func (e *Engine) Warningf(format string, args ...any) error {
	return e.Logf(Warning, format, args...)
}

func (e *Engine) Noticef(format string, args ...any) error {
	return e.Logf(Notice, format, args...)
}

func (e *Engine) Infof(format string, args ...any) error {
	return e.Logf(Informational, format, args...)
}

func (e *Engine) Debugf(format string, args ...any) error {
	return e.Logf(Debug, format, args...)
}

// API logs an HTTP call, choosing the severity from the status code
// (5xx ERROR, 4xx WARNING, otherwise INFORMATIONAL) and prefixing the
// message with "[<status>]".
//
// Example:
//
//	eng.API(200, logger.Text("request successful"))
//	eng.API(404, logger.Text("resource not found"))
func (e *Engine) API(status int, parts ...Part) error {
	msg := make([]Part, 0, len(parts)+1)
	msg = append(msg, Textf("[%d]", status))
	msg = append(msg, parts...)
	return e.Log(SeverityForStatus(status), msg...)
}
