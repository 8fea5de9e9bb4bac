// Package slogobs provides an [observability.Provider] backed by log/slog.
//
// Spans, counters and log records are all emitted as slog records. By default
// the records are rendered by a charmbracelet/log handler writing to stderr in
// text, logfmt or JSON form; [WithLogger] plugs in any other slog.Logger.
//
// Format and level default to MATHAGENT_LOG_FORMAT and MATHAGENT_LOG_LEVEL,
// falling back to LOG_FORMAT and LOG_LEVEL.
package slogobs
