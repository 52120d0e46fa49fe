// Package httpserver wraps net/http.Server with functional options,
// graceful signal-aware shutdown, and probe handlers.
package httpserver
