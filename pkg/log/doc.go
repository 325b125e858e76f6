// Package log provides structured logging of timer lifecycle events.
//
// A Registry configured with a Logger emits one Event per state
// transition: setup, start, stop, fire, trigger, override, remove.
// Logging is strictly observational; a logger can never fail or slow a
// timer operation beyond its own Log call.
//
// # Loggers
//
//   - NoopLogger: discards everything; the default.
//   - SlogAdapter: writes events to a log/slog logger for console output
//     during development.
//   - FileLogger: appends CBOR-encoded events to a file. Events use
//     integer keys for compactness and round-trip through Reader.
//   - MultiLogger: fans out to several loggers, e.g. console plus file.
//
// # Reading Logs
//
// Reader streams events back out of a CBOR log file, optionally
// filtered by registry, timer name, category, or time range.
package log
