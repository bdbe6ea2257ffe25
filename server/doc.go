// Package server provides the HTTP server for simbank, backed by Gin with
// h2c support, a standard middleware stack (recovery, request id, request
// logging), and response helpers that map AppErrors to JSON envelopes.
package server
