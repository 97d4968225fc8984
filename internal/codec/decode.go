package codec

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// decode is a recursive function that populates a Go value from a cty.Value.
// goVal must be a non-nil pointer to the target.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	valPtr := reflect.ValueOf(goVal)
	goPtr := valPtr.Elem()
	goType := goPtr.Type()
	logger := ctxlog.FromContext(ctx).With("go_kind", goType.Kind().String())

	// If the target is of type cty.Value, no further decoding is needed.
	// The handler wants the typed value itself.
	if goType == ctyValueType {
		logger.Debug("Target is cty.Value, performing direct assignment.")
		if val.IsKnown() {
			goPtr.Set(reflect.ValueOf(val))
		}
		return nil
	}

	if !val.IsKnown() || val.IsNull() {
		logger.Debug("Skipping decode for null or unknown value.")
		return nil // Leaves the zero value: nil pointer, nil slice, etc.
	}

	switch goType.Kind() {
	case reflect.Ptr:
		elem := reflect.New(goType.Elem())
		if err := c.decode(ctx, val, elem.Interface()); err != nil {
			return err
		}
		goPtr.Set(elem)
		return nil

	case reflect.Interface: // This handles 'any'.
		nativeVal, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil

	case reflect.Struct:
		return c.decodeStruct(ctx, val, goPtr)

	case reflect.Map:
		return c.decodeMap(ctx, val, goPtr)

	case reflect.Slice:
		return c.decodeSlice(ctx, val, goPtr)

	default:
		// Primitive leaf: strings, bools, and the numeric kinds.
		if err := gocty.FromCtyValue(val, goVal); err != nil {
			return fmt.Errorf("cannot decode %s into Go %s: %w", val.Type().FriendlyName(), goType.String(), err)
		}
		return nil
	}
}

// decodeStruct populates the cty-tagged exported fields of a Go struct
// from an object value. Attributes without a matching field are ignored;
// fields without a matching attribute keep their zero value.
func (c *Converter) decodeStruct(ctx context.Context, val cty.Value, goPtr reflect.Value) error {
	goType := goPtr.Type()
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return fmt.Errorf("type mismatch: cannot decode %s into Go struct %s", val.Type().FriendlyName(), goType.String())
	}

	attrMap := val.AsValueMap()
	for i := 0; i < goType.NumField(); i++ {
		fieldDef := goType.Field(i)
		fieldVal := goPtr.Field(i)

		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tagName := strings.Split(fieldDef.Tag.Get("cty"), ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}

		attrVal, ok := attrMap[tagName]
		if !ok {
			continue
		}

		if err := c.decode(ctx, attrVal, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("in attribute '%s': %w", tagName, err)
		}
	}
	return nil
}

// decodeMap populates a Go map with string keys from a map or object value.
func (c *Converter) decodeMap(ctx context.Context, val cty.Value, goPtr reflect.Value) error {
	goType := goPtr.Type()
	if goType.Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %s: only string keys are supported", goType.Key())
	}
	if !val.Type().IsMapType() && !val.Type().IsObjectType() {
		return fmt.Errorf("type mismatch: cannot decode %s into Go map %s", val.Type().FriendlyName(), goType.String())
	}

	out := reflect.MakeMap(goType)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		elem := reflect.New(goType.Elem())
		if err := c.decode(ctx, v, elem.Interface()); err != nil {
			return fmt.Errorf("in map key '%s': %w", k.AsString(), err)
		}
		out.SetMapIndex(reflect.ValueOf(k.AsString()).Convert(goType.Key()), elem.Elem())
	}
	goPtr.Set(out)
	return nil
}

// decodeSlice populates a Go slice from a list, set, or tuple value.
// A failure at any element surfaces as a failure of the whole slice; the
// caller attributes it to the argument's position, not a sub-index.
func (c *Converter) decodeSlice(ctx context.Context, val cty.Value, goPtr reflect.Value) error {
	goType := goPtr.Type()
	ty := val.Type()
	if !ty.IsListType() && !ty.IsSetType() && !ty.IsTupleType() {
		return fmt.Errorf("type mismatch: cannot decode %s into Go slice %s", ty.FriendlyName(), goType.String())
	}

	length := val.LengthInt()
	out := reflect.MakeSlice(goType, 0, length)
	idx := 0
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		elem := reflect.New(goType.Elem())
		if err := c.decode(ctx, v, elem.Interface()); err != nil {
			return fmt.Errorf("at element %d: %w", idx, err)
		}
		out = reflect.Append(out, elem.Elem())
		idx++
	}
	goPtr.Set(out)
	return nil
}
