// Package requestid provides request-correlation middleware and context
// helpers. Each incoming HTTP request gets an opaque id (client-supplied
// or generated) that is propagated through context, echoed in the
// response header, and injectable into structured logs.
package requestid
