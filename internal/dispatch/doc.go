// Package dispatch resolves a command name to its registered handler and
// runs the call: argument marshaling, handler invocation, and result
// encoding, normalized into a single success-or-error outcome regardless
// of the handler's shape.
package dispatch
