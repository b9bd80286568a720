package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Handler is the output side of a sink. Each method writes one message
// made of already-resolved parts.
type Handler interface {
	Log(parts ...string) error
	Info(parts ...string) error
	Warn(parts ...string) error
	Error(parts ...string) error
	Debug(parts ...string) error
	Trace(parts ...string) error
}

// Structured is implemented by handlers that format lines themselves
// (timestamps, levels). The engine does not add its header for them.
type Structured interface {
	Structured() bool
}

// Kind selects how an exporter is built.
type Kind int

const (
	// KindConsole writes to standard streams or caller-supplied writers.
	KindConsole Kind = iota
	// KindFile appends to files; output never carries color escapes.
	KindFile
	// KindLogrus forwards to a logrus logger.
	KindLogrus
)

func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindFile:
		return "file"
	case KindLogrus:
		return "logrus"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind parses a sink kind. Unknown kinds are an error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "":
		return KindConsole, nil
	case "file":
		return KindFile, nil
	case "logrus":
		return KindLogrus, nil
	}
	return KindConsole, &ConfigurationError{Field: "kind", Err: errors.Wrapf(ErrUnknownKind, "%q", s)}
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	kind, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// colorCapable reports whether the engine may send escapes to this kind.
func (k Kind) colorCapable() bool {
	return k == KindConsole
}

// ExporterConfig describes a sink to build.
type ExporterConfig struct {
	// Kind of sink.
	// Default: KindConsole
	Kind Kind `yaml:"kind"`
	// Stdout is the target for Log/Info/Debug/Trace. For file sinks it is a
	// path and is required. For console sinks it is "", "-", "stdout" or
	// "stderr". Logrus sinks accept either.
	Stdout string `yaml:"stdout"`
	// Stderr is the target for Warn/Error. Empty means os.Stderr for
	// console sinks and the Stdout target otherwise.
	Stderr string `yaml:"stderr"`
	// StdoutWriter and StderrWriter override Stdout/Stderr when set.
	StdoutWriter io.Writer `yaml:"-"`
	StderrWriter io.Writer `yaml:"-"`
}

// HandlerOptions are the engine-level settings a sink is built with.
type HandlerOptions struct {
	ColorMode ColorMode
}

// NewHandler builds the handler for cfg. File targets are opened here;
// close the handler (it implements io.Closer) to release them.
func NewHandler(cfg ExporterConfig, opts HandlerOptions) (Handler, error) {
	var (
		h   Handler
		err error
	)
	switch cfg.Kind {
	case KindConsole:
		h, err = newConsoleHandler(cfg, opts)
	case KindFile:
		h, err = newFileHandler(cfg)
	case KindLogrus:
		h, err = newLogrusKind(cfg, opts)
	default:
		return nil, &ConfigurationError{Field: "kind", Err: errors.Wrapf(ErrUnknownKind, "%d", int(cfg.Kind))}
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// targets resolves the two output streams of a sink and the files it owns.
type targets struct {
	out, err io.Writer
	files    []*os.File
}

func (t *targets) close() error {
	var err error
	for _, f := range t.files {
		err = multierr.Append(err, f.Close())
	}
	t.files = nil
	return err
}

func standardStream(spec string, fallback *os.File) (*os.File, bool) {
	switch strings.ToLower(spec) {
	case "":
		return fallback, true
	case "-", "stdout":
		return os.Stdout, true
	case "stderr":
		return os.Stderr, true
	}
	return nil, false
}

func isStandardName(spec string) bool {
	_, ok := standardStream(spec, nil)
	return ok
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// resolveTargets picks writers for cfg. allowPaths permits file paths;
// requirePath rejects standard stream names.
func resolveTargets(cfg ExporterConfig, allowPaths, requirePath bool) (*targets, error) {
	t := &targets{out: cfg.StdoutWriter, err: cfg.StderrWriter}
	opened := map[string]*os.File{}

	open := func(field, spec string, fallback *os.File) (io.Writer, error) {
		if f, ok := standardStream(spec, fallback); ok && !requirePath {
			return f, nil
		}
		if !allowPaths || spec == "" || (requirePath && isStandardName(spec)) {
			return nil, &ConfigurationError{Field: field, Err: errors.Wrapf(ErrInvalidExporter, "%s target %q", cfg.Kind, spec)}
		}
		if f, ok := opened[spec]; ok {
			return f, nil
		}
		f, err := openAppend(spec)
		if err != nil {
			return nil, err
		}
		opened[spec] = f
		t.files = append(t.files, f)
		return f, nil
	}

	if t.out == nil {
		w, err := open("stdout", cfg.Stdout, os.Stdout)
		if err != nil {
			return nil, err
		}
		t.out = w
	}
	if t.err == nil {
		switch {
		case cfg.Stderr != "":
			w, err := open("stderr", cfg.Stderr, os.Stderr)
			if err != nil {
				_ = t.close()
				return nil, err
			}
			t.err = w
		case cfg.Kind == KindConsole:
			t.err = os.Stderr
		default:
			t.err = t.out
		}
	}
	return t, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writerHandler writes space-joined parts as one line per call.
type writerHandler struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	strip   [2]bool // per stream: drop escapes before writing
	journal bool
	owned   *targets
}

const (
	outStream = 0
	errStream = 1
)

func newConsoleHandler(cfg ExporterConfig, opts HandlerOptions) (*writerHandler, error) {
	t, err := resolveTargets(cfg, false, false)
	if err != nil {
		return nil, err
	}
	h := &writerHandler{owned: t}
	h.out, h.strip[outStream] = consoleStream(t.out, opts.ColorMode)
	h.err, h.strip[errStream] = consoleStream(t.err, opts.ColorMode)
	// journald reads plain lines, so only add priorities when colors are not forced.
	h.journal = opts.ColorMode != ColorAlways && os.Getenv("JOURNAL_STREAM") != ""
	return h, nil
}

// consoleStream wraps terminals for ANSI support (Windows consoles) and
// reports whether escapes must be stripped: in sink-default mode only a
// terminal keeps them.
func consoleStream(w io.Writer, mode ColorMode) (io.Writer, bool) {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return colorable.NewColorable(f), false
	}
	return w, mode == ColorSinkDefault
}

func newFileHandler(cfg ExporterConfig) (*writerHandler, error) {
	t, err := resolveTargets(cfg, true, cfg.StdoutWriter == nil)
	if err != nil {
		return nil, err
	}
	return &writerHandler{
		out:   t.out,
		err:   t.err,
		strip: [2]bool{true, true},
		owned: t,
	}, nil
}

func (h *writerHandler) write(stream int, priority string, parts []string) error {
	line := strings.Join(parts, " ")
	if h.strip[stream] {
		line = StripANSI(line)
	}
	if h.journal {
		line = priority + strings.ReplaceAll(line, "\n", "\n"+priority)
	}
	w := h.out
	if stream == errStream {
		w = h.err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, line+"\n")
	return err
}

func (h *writerHandler) Log(parts ...string) error   { return h.write(outStream, "<6>", parts) }
func (h *writerHandler) Info(parts ...string) error  { return h.write(outStream, "<5>", parts) }
func (h *writerHandler) Warn(parts ...string) error  { return h.write(errStream, "<4>", parts) }
func (h *writerHandler) Error(parts ...string) error { return h.write(errStream, "<3>", parts) }
func (h *writerHandler) Debug(parts ...string) error { return h.write(outStream, "<7>", parts) }
func (h *writerHandler) Trace(parts ...string) error { return h.write(outStream, "<7>", parts) }

// Close closes any files the handler opened. Caller-supplied writers and
// standard streams are left open.
func (h *writerHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owned == nil {
		return nil
	}
	return h.owned.close()
}

// logrusHandler forwards messages to logrus loggers. Warn and Error go
// to errLog, everything else to outLog.
type logrusHandler struct {
	mu     sync.Mutex
	outLog logrus.Ext1FieldLogger
	errLog logrus.Ext1FieldLogger
	// outW and errW see every write of the loggers built for the logrus
	// kind. They are nil for caller-supplied loggers.
	outW  *lastErrorWriter
	errW  *lastErrorWriter
	owned *targets
}

// lastErrorWriter remembers the most recent write failure, which logrus
// itself only reports on os.Stderr.
type lastErrorWriter struct {
	w   io.Writer
	err error
}

func (l *lastErrorWriter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	if err != nil {
		l.err = err
	}
	return n, err
}

func (l *lastErrorWriter) take() error {
	if l == nil {
		return nil
	}
	err := l.err
	l.err = nil
	return err
}

// NewLogrusHandler adapts a logrus logger (or entry) into a Handler.
// The engine's threshold decides what is logged, so set the logrus
// level to TraceLevel to see everything.
//
// logrus does not return write errors, so the adapter always reports
// success. Build a logrus-kind exporter to get them as SinkWriteError.
func NewLogrusHandler(l logrus.Ext1FieldLogger) Handler {
	return &logrusHandler{outLog: l, errLog: l}
}

func newLogrusKind(cfg ExporterConfig, opts HandlerOptions) (*logrusHandler, error) {
	t, err := resolveTargets(cfg, true, false)
	if err != nil {
		return nil, err
	}
	formatter := &logrus.TextFormatter{
		ForceColors:   opts.ColorMode == ColorAlways,
		DisableColors: opts.ColorMode == ColorNever,
		FullTimestamp: true,
	}
	newLogger := func(w io.Writer) *logrus.Logger {
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(formatter)
		l.SetLevel(logrus.TraceLevel)
		return l
	}
	h := &logrusHandler{
		outW:  &lastErrorWriter{w: t.out},
		errW:  &lastErrorWriter{w: t.err},
		owned: t,
	}
	h.outLog = newLogger(h.outW)
	h.errLog = newLogger(h.errW)
	return h, nil
}

func join(parts []string) string { return strings.Join(parts, " ") }

// write logs one message and returns the write error it caused, if any.
// The mutex keeps concurrent calls from picking up each other's errors.
func (h *logrusHandler) write(level logrus.Level, parts []string) error {
	l, w := h.outLog, h.outW
	if level <= logrus.WarnLevel {
		l, w = h.errLog, h.errW
	}
	msg := join(parts)

	h.mu.Lock()
	defer h.mu.Unlock()
	switch level {
	case logrus.ErrorLevel:
		l.Error(msg)
	case logrus.WarnLevel:
		l.Warn(msg)
	case logrus.InfoLevel:
		l.Info(msg)
	case logrus.DebugLevel:
		l.Debug(msg)
	default:
		l.Trace(msg)
	}
	return w.take()
}

func (h *logrusHandler) Log(parts ...string) error   { return h.write(logrus.InfoLevel, parts) }
func (h *logrusHandler) Info(parts ...string) error  { return h.write(logrus.InfoLevel, parts) }
func (h *logrusHandler) Warn(parts ...string) error  { return h.write(logrus.WarnLevel, parts) }
func (h *logrusHandler) Error(parts ...string) error { return h.write(logrus.ErrorLevel, parts) }
func (h *logrusHandler) Debug(parts ...string) error { return h.write(logrus.DebugLevel, parts) }
func (h *logrusHandler) Trace(parts ...string) error { return h.write(logrus.TraceLevel, parts) }

func (h *logrusHandler) Structured() bool { return true }

func (h *logrusHandler) Close() error {
	if h.owned == nil {
		return nil
	}
	return h.owned.close()
}
