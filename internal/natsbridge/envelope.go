// Package natsbridge serves the dispatch runtime as a persistent NATS
// request/reply service. Each inbound message is one call; the registry is
// frozen before the subscription starts, so concurrent calls share no
// mutable dispatch state.
package natsbridge

import "encoding/json"

// CallRequest is the JSON envelope for an inbound call.
type CallRequest struct {
	ID      string            `json:"id"`
	Command string            `json:"command"`
	Args    []json.RawMessage `json:"args"`
}

// CallResponse is the JSON envelope for a call outcome.
type CallResponse struct {
	ID     string          `json:"id"`
	Ok     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorDetail    `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
