// Package hcl loads command manifests.
//
// A manifest declares the wire contract of one or more commands: the
// command name, the declaration-side async flag, and the ordered list of
// positional parameters with their types. The Go handler for each command
// is registered separately; the registry's validation pass ties the two
// halves together before any call is served.
package hcl
