// Package logx wraps zerolog behind a small structured-logging API
// shared by every component. Sinks (console, file) can be swapped at
// runtime via Service.Apply without re-plumbing loggers.
package logx
