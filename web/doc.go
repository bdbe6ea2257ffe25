// Package web wires the HTTP surface of the banking demo: the OAuth login
// routes (/login, /callback, /logout), the JSON landing page, the transfer
// and configuration endpoints, and the health check.
//
// Handlers translate between HTTP and the domain packages; all failures are
// rendered through the shared error envelope.
package web
