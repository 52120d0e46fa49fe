// Package logger builds configured log/slog loggers with functional
// options: level, JSON or text encoding, static service attributes, and
// context extractors that inject request-scoped values (such as request
// ids) into every record.
package logger
