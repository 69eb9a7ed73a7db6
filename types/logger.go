package types

// Logger defines methods for structured logging.
//
// The method set matches the "w" family of zap.SugaredLogger and the slog
// key-value convention: every call takes a message followed by alternating keys and values.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel and calls os.Exit(1).
	//
	// Implementations used in tests may fail the test instead of exiting.
	Fatal(msg string, keysAndValues ...any)
}
