// Package codec is the argument marshaler and result encoder.
//
// Inbound, it converts an ordered JSON argument array into the strongly
// typed parameter values a handler expects: the arity check runs first,
// then each position is parsed against its declared manifest type and
// decoded into the handler's native Go type. Decoding is fail-fast — the
// first bad position terminates the call.
//
// Outbound, it converts a handler's native output back into JSON through
// the same type system.
package codec
