package logger

import (
	"sync"
)

// call is one handler invocation seen by a recorder.
type call struct {
	method string
	parts  []string
}

// recorder is a Handler that remembers every call. If fail is set every
// method returns it after recording the call.
type recorder struct {
	mu    sync.Mutex
	calls []call
	fail  error
}

func (r *recorder) record(method string, parts []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{method: method, parts: append([]string(nil), parts...)})
	return r.fail
}

func (r *recorder) Log(parts ...string) error   { return r.record("log", parts) }
func (r *recorder) Info(parts ...string) error  { return r.record("info", parts) }
func (r *recorder) Warn(parts ...string) error  { return r.record("warn", parts) }
func (r *recorder) Error(parts ...string) error { return r.record("error", parts) }
func (r *recorder) Debug(parts ...string) error { return r.record("debug", parts) }
func (r *recorder) Trace(parts ...string) error { return r.record("trace", parts) }

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// quietSettings has no default sink and no header, so recorded parts are
// exactly what the message resolved to.
func quietSettings(level Severity, mode ColorMode) Settings {
	s := DefaultSettings()
	s.DefaultSink = false
	s.Header = false
	s.Level = level
	s.ColorMode = mode
	return s
}

// counting returns a deferred part that counts its invocations.
func counting(n *int, text string) Part {
	return Defer(func(FormatterContext) (string, error) {
		*n++
		return text, nil
	})
}
