// Package registry provides the central "glue" for the command system.
//
// The Registry stores mappings between the command names used on the wire
// and the compiled Go functions that implement them, alongside the parsed
// manifest definitions that declare each command's positional parameters.
//
// During application startup, the registry is populated and then validated
// to ensure the Go code and the public-facing manifests are perfectly in
// sync, preventing a wide class of runtime errors. From the moment the
// first call is dispatched the registry is frozen: nothing is added,
// removed, or mutated, so lookups need no synchronization.
package registry
