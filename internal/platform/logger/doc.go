// Package logger provides structured logging functionality for the application.
//
// It uses the standard library log/slog package to emit JSON logs with a
// configurable level, and carries request- or operation-scoped loggers
// through context.Context so that downstream code logs with the same
// attributes (trace_id, headline_id, task_id) as its caller.
package logger
