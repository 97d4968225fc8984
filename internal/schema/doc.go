// Package schema defines the format-agnostic command declaration model.
//
// A command's wire contract — its name, ordered positional parameters and
// their types — is declared in a manifest and translated into the
// definitions in this package. The registry validates these definitions
// against the compiled Go handlers so that the public contract and the
// code can never drift apart silently.
package schema
