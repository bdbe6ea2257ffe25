// Package errors provides unified error handling for simbank.
//
// It implements a structured error type with machine-readable codes and
// HTTP status mapping. The login flow uses four families of failures:
//
//   - configuration errors: required settings missing, HTTP 500, never retried
//   - protocol errors: bad or replayed callback parameters, HTTP 400, the
//     user restarts the flow at /login
//   - upstream errors: the token endpoint misbehaved, HTTP 500 with
//     server-side diagnostic detail and a generic client message
//   - decode failures: never surfaced as a response at all; the flow
//     continues with a fallback user (see the oauth package)
//
// All failures are converted to a JSON envelope at the handler boundary.
package errors
