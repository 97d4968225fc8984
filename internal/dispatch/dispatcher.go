package dispatch

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/codec"
	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/registry"
)

// Dispatcher resolves command names against the registry and runs calls
// end to end: marshal arguments, invoke the handler, encode the outcome.
type Dispatcher struct {
	registry  *registry.Registry
	converter *codec.Converter
}

// New creates a Dispatcher over a fully populated, validated registry.
func New(reg *registry.Registry, conv *codec.Converter) *Dispatcher {
	return &Dispatcher{registry: reg, converter: conv}
}

// Dispatch runs exactly one call. It returns the JSON encoding of the
// handler's result, or one structured error from the callerr taxonomy.
// Every error is final for the call; there are no retries and no partial
// application.
func (d *Dispatcher) Dispatch(ctx context.Context, command string, raw []json.RawMessage) (json.RawMessage, error) {
	logger := ctxlog.FromContext(ctx).With("command", command)

	handler, def, ok := d.registry.Lookup(command)
	if !ok {
		logger.Debug("Lookup failed, no such command.")
		return nil, &callerr.FunctionNotFound{Function: command}
	}
	logger.Debug("Resolved command.", "params", len(def.Params), "async", def.Async, "fallible", handler.Fallible())

	goTypes := make([]reflect.Type, handler.NumParams())
	for i := range goTypes {
		goTypes[i] = handler.ParamType(i)
	}

	// Marshaling always completes fully before the handler starts.
	args, err := d.converter.DecodeArgs(ctx, command, def.Params, goTypes, raw)
	if err != nil {
		return nil, err
	}

	value, err := handler.Call(ctx, args)
	if err != nil {
		// Only the domain error's rendered text crosses this boundary.
		return nil, &callerr.ExecutionError{Message: err.Error()}
	}

	result, err := d.converter.EncodeResult(value)
	if err != nil {
		return nil, &callerr.ExecutionError{Message: err.Error()}
	}

	logger.Debug("Call completed.", "result_bytes", len(result))
	return result, nil
}
