package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/mordilloSan/logengine/logger"
	"github.com/mordilloSan/logengine/prompt"
)

// Example demonstrating the engine.
// Usage: ./logengine [--config settings.yaml] [--level debug] [--color never] [--file app.log] [--ask]
func main() {
	var (
		configPath = flag.String("config", "", "YAML settings file")
		level      = flag.String("level", "", "threshold severity (overrides config and LOGGER_LEVEL)")
		colorMode  = flag.String("color", "", "color mode: always, sink-default or never")
		logFile    = flag.String("file", "", "also log to this file")
		verbose    = flag.Bool("verbose", true, "route DEBUG messages to the trace method")
		ask        = flag.Bool("ask", false, "ask for a name from inside a deferred part")
	)
	flag.Parse()

	// A missing .env is fine.
	_ = godotenv.Load()

	if err := run(*configPath, *level, *colorMode, *logFile, *verbose, *ask); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, level, colorMode, logFile string, verbose, ask bool) error {
	settings := logger.DefaultSettings()
	if configPath != "" {
		var err error
		if settings, err = logger.LoadSettings(configPath); err != nil {
			return err
		}
	}
	settings, err := settings.WithEnv()
	if err != nil {
		return err
	}
	if level != "" {
		if settings.Level, err = logger.ParseSeverity(level); err != nil {
			return err
		}
	}
	if colorMode != "" {
		if settings.ColorMode, err = logger.ParseColorMode(colorMode); err != nil {
			return err
		}
	}
	if flag.CommandLine.Changed("verbose") {
		settings.Verbose = verbose
	}

	var opts []logger.Option
	if ask {
		opts = append(opts, logger.WithPrompter(prompt.New()))
	}
	eng, err := logger.New(settings, opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	if logFile != "" {
		if err := eng.RegisterExporter("file", logger.ExporterConfig{Kind: logger.KindFile, Stdout: logFile}); err != nil {
			return err
		}
		eng.Infof("logging to file: %s", logFile)
	} else {
		eng.Infof("logging to console only (pass --file to add a file sink)")
	}

	eng.Debug(logger.Text("starting at"), logger.Value(time.Now().Format(time.RFC3339)))
	eng.Info(logger.Text("hello"), logger.Text("world"))
	eng.Notice(logger.Text("configuration loaded"))
	eng.Warning(logger.Text("be careful"))
	eng.Error(logger.Text("oops:"), logger.Text("something happened"))
	eng.Critical(logger.Text("disk almost full"))

	// Deferred parts see the elapsed time and can colorize on their own.
	eng.Info(logger.Text("uptime"), logger.Defer(func(c logger.FormatterContext) (string, error) {
		return c.Colorizer.Green(c.Elapsed.String()), nil
	}))

	if ask {
		err := eng.Notice(logger.Text("hello,"), logger.Defer(func(c logger.FormatterContext) (string, error) {
			if c.Prompter == nil {
				return "stranger", nil
			}
			return c.Prompter.Ask("What is your name? ")
		}))
		if err != nil {
			return err
		}
	}

	// API logging picks the severity from the status code.
	eng.API(200, logger.Text("request successful"))
	eng.API(404, logger.Text("resource not found"))
	eng.API(500, logger.Text("internal server error"))
	return nil
}
