package logger_test

import (
	"fmt"
	"os"

	"github.com/mordilloSan/logengine/logger"
)

// This example shows plain console output with deferred parts.
func ExampleNew() {
	s := logger.DefaultSettings()
	s.Header = false
	s.ColorMode = logger.ColorNever
	eng, err := logger.New(s, logger.WithStdout(os.Stdout), logger.WithStderr(os.Stdout))
	if err != nil {
		panic(err)
	}
	defer eng.Close()

	eng.Info(logger.Text("hello"), logger.Text("world"))
	eng.Debug(logger.Lazy(func() string { return "never computed" }))
	eng.Warning(logger.Textf("retry %d/%d", 1, 3))
	eng.Notice(logger.Text("level is"), logger.Defer(func(c logger.FormatterContext) (string, error) {
		return c.Level.String(), nil
	}))
	// Output:
	// hello world
	// retry 1/3
	// level is NOTICE
}

// This example writes to a file sink only. File sinks never receive color
// escapes, even in ColorAlways mode.
func ExampleEngine_RegisterExporter() {
	dir, err := os.MkdirTemp("", "logengine")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	s := logger.DefaultSettings()
	s.Header = false
	s.DefaultSink = false
	eng, err := logger.New(s)
	if err != nil {
		panic(err)
	}
	defer eng.Close()

	path := dir + "/app.log"
	if err := eng.RegisterExporter("file", logger.ExporterConfig{Kind: logger.KindFile, Stdout: path}); err != nil {
		panic(err)
	}
	eng.Error(logger.Text("disk full"))
	eng.UnregisterExporter("file")

	content, _ := os.ReadFile(path)
	fmt.Printf("%q\n", content)
	// Output:
	// "disk full\n"
}

// This example maps HTTP status codes to severities.
func ExampleEngine_API() {
	s := logger.DefaultSettings()
	s.Header = false
	s.ColorMode = logger.ColorNever
	eng, _ := logger.New(s, logger.WithStdout(os.Stdout), logger.WithStderr(os.Stdout))
	defer eng.Close()

	eng.API(200, logger.Text("request successful"))
	eng.API(404, logger.Text("resource not found"))
	// Output:
	// [200] request successful
	// [404] resource not found
}
