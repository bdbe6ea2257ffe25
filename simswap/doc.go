// Package simswap provides a client for the CAMARA SIM Swap API.
//
// The bank transfer risk check calls RetrieveDate with the user's OAuth
// access token to learn when the phone number's SIM was last changed.
package simswap
