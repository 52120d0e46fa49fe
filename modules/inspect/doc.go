// Package inspect exposes the permission resolution engine over HTTP.
//
// Two endpoints answer the two questions the engine supports: what a
// principal can effectively do on a resource, and whether a principal
// holds a given role there. Input validation failures never reach the
// upstream providers, and upstream failures are mapped onto 403/503/500
// so callers can distinguish misconfiguration from flakiness.
package inspect
