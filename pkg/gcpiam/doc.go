// Package gcpiam provides live policy and role-catalog providers backed
// by the Google Cloud IAM and Resource Manager APIs.
//
// The Client is constructed explicitly and injected into the resolution
// service rather than living in process globals, so its lifecycle and
// readiness are owned by the caller. Upstream HTTP failures are mapped
// onto the resolve error taxonomy: 404 degrades to not-found, 401/403
// become permission-denied with a hint naming the missing upstream
// grant, and 429/5xx become retryable unavailability.
package gcpiam
