package codec

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative converts a cty.Value to a plain Go interface{} value.
func ctyToNative(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			nativeVal, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = nativeVal
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			nativeVal, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nativeVal)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}

// toCtyValue converts a native Go value into its equivalent cty.Value via
// the implied-type bridge.
func toCtyValue(value any) (cty.Value, error) {
	impliedType, err := gocty.ImpliedType(value)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to serialize result: %v", err)
	}
	ctyVal, err := gocty.ToCtyValue(value, impliedType)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to serialize result: %v", err)
	}
	return ctyVal, nil
}
