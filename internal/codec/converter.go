package codec

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/schema"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Converter bridges raw JSON arguments, the cty type system used by the
// manifests, and the native Go parameter types of the registered handlers.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArgs converts an ordered sequence of raw JSON arguments into the
// typed reflect values a handler expects, or returns the first structured
// error found. The arity check always runs first; per-position decoding is
// fail-fast, so positions after the first failure are never inspected.
func (c *Converter) DecodeArgs(ctx context.Context, function string, params []*schema.ParamDefinition, goTypes []reflect.Type, raw []json.RawMessage) ([]reflect.Value, error) {
	logger := ctxlog.FromContext(ctx).With("command", function)

	if len(raw) != len(params) {
		return nil, &callerr.ArgumentCountMismatch{
			Function: function,
			Expected: len(params),
			Actual:   len(raw),
		}
	}

	args := make([]reflect.Value, len(params))
	for i, paramDef := range params {
		// The arity check makes a nil raw slot unreachable, but the
		// contract for MissingArgument is kept as a guard.
		if raw[i] == nil {
			return nil, &callerr.MissingArgument{
				Function:  function,
				Parameter: paramDef.Name,
				Position:  i,
			}
		}

		val, err := c.unmarshalParam(raw[i], paramDef.Type)
		if err != nil {
			return nil, &callerr.DecodingError{
				Function:  function,
				Parameter: paramDef.Name,
				Position:  i,
				Err:       err,
			}
		}

		target := reflect.New(goTypes[i])
		if err := c.decode(ctx, val, target.Interface()); err != nil {
			return nil, &callerr.DecodingError{
				Function:  function,
				Parameter: paramDef.Name,
				Position:  i,
				Err:       err,
			}
		}
		args[i] = target.Elem()
		logger.Debug("Decoded argument.", "param", paramDef.Name, "position", i, "type", paramDef.Type.FriendlyName())
	}
	return args, nil
}

// unmarshalParam parses one raw JSON argument against its declared type.
// A declared type of 'any' falls back to the type the JSON itself implies.
func (c *Converter) unmarshalParam(raw json.RawMessage, declared cty.Type) (cty.Value, error) {
	ty := declared
	if declared.Equals(cty.DynamicPseudoType) {
		implied, err := ctyjson.ImpliedType(raw)
		if err != nil {
			return cty.NilVal, err
		}
		ty = implied
	}
	return ctyjson.Unmarshal(raw, ty)
}

// EncodeResult converts a handler's native output into its JSON encoding.
// Handlers may return a cty.Value directly; anything else goes through the
// implied-type bridge. A nil output encodes as JSON null.
func (c *Converter) EncodeResult(value any) (json.RawMessage, error) {
	if value == nil {
		return json.RawMessage("null"), nil
	}

	if ctyVal, ok := value.(cty.Value); ok {
		// Covers cty.NilVal as well; its IsNull is true.
		if ctyVal.IsNull() {
			return json.RawMessage("null"), nil
		}
		return ctyjson.Marshal(ctyVal, ctyVal.Type())
	}

	// A typed nil (e.g. a nil *string from an optional-returning handler)
	// still encodes as null.
	rv := reflect.ValueOf(value)
	if isNilableKind(rv.Kind()) && rv.IsNil() {
		return json.RawMessage("null"), nil
	}

	ctyVal, err := toCtyValue(value)
	if err != nil {
		return nil, err
	}
	return ctyjson.Marshal(ctyVal, ctyVal.Type())
}

func isNilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
