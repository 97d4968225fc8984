// Package app wires the application together: logger, manifest loading,
// command module registration, registry validation, and the call driver
// for both one-shot and serve modes.
package app
