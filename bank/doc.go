// Package bank implements the demo banking backend behind the login flow:
// a single account balance, a money transfer with a SIM-swap risk check for
// large amounts, and the stored customer configuration (msisdn + check type).
//
// All state is held by a Service instance with explicit synchronization; no
// package-level mutable state.
package bank
