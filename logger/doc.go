// Package logger provides a leveled logging engine that formats message
// parts, optionally colorizes them by severity and dispatches them to
// named sinks.
//
// # Severities
//
// Severities follow RFC-5424: EMERGENCY, ALERT, CRITICAL, ERROR, WARNING,
// NOTICE, INFORMATIONAL and DEBUG, most severe first. Each one belongs to
// a dispatch group that picks the sink method and the color:
//
//	EMERGENCY ALERT CRITICAL ERROR  -> Error  (red)
//	WARNING                         -> Warn   (yellow)
//	NOTICE                          -> Info   (cyan)
//	DEBUG                           -> Trace when verbose, else Debug (blue)
//	INFORMATIONAL and anything else -> Log    (blue)
//
// # Usage
//
// Create an engine once at startup:
//
//	eng, err := logger.New(logger.DefaultSettings())
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//
// Log literal and deferred parts:
//
//	eng.Info(logger.Text("server started on port"), logger.Value(8080))
//	eng.Debug(logger.Defer(func(c logger.FormatterContext) (string, error) {
//		return c.Colorizer.Green(c.Elapsed.String()), nil
//	}))
//
// Deferred parts only run when the message passes the threshold, and run
// exactly once no matter how many sinks are registered.
//
// # Sinks
//
// The default sink writes to stdout (Log/Info/Debug/Trace) and stderr
// (Warn/Error). Add more with RegisterExporter:
//
//	eng.RegisterExporter("audit", logger.ExporterConfig{
//		Kind:   logger.KindFile,
//		Stdout: "/var/log/app.log",
//	})
//
// File sinks never receive color escapes. Console sinks receive them
// according to the ColorMode: always, sink-default (only on a terminal) or
// never (escapes already present in parts are stripped too).
//
// # Configuration
//
// Settings can be loaded from YAML with LoadSettings and overridden from
// LOGGER_LEVEL, LOGGER_COLOR and LOGGER_VERBOSE with Settings.WithEnv.
package logger
