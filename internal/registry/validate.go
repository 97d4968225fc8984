package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// ValidateRegistry performs a strict parity check between manifests and Go
// code. Every declared command must have a handler and vice versa, the
// positional parameter counts must agree, and every declared type must be
// convertible into the corresponding Go parameter.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for name := range r.HandlerRegistry {
		if _, ok := r.DefinitionRegistry[name]; !ok {
			errs = append(errs, fmt.Sprintf("command '%s': Go handler registered but no manifest declares it", name))
		}
	}

	for name, def := range r.DefinitionRegistry {
		handler, ok := r.HandlerRegistry[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("command '%s': manifest declares it but no Go handler is registered", name))
			continue
		}

		if len(def.Params) != handler.NumParams() {
			errs = append(errs, fmt.Sprintf("command '%s': manifest declares %d params, Go handler takes %d", name, len(def.Params), handler.NumParams()))
			continue
		}

		for i, paramDef := range def.Params {
			goType := handler.ParamType(i)
			if err := checkParamCompat(paramDef.Type, paramDef.Optional, goType); err != nil {
				errs = append(errs, fmt.Sprintf("command '%s', param '%s' (position %d): %v", name, paramDef.Name, i, err))
			}
			if paramDef.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest param uses 'type = any', which disables static type checking. Consider a specific type like 'string', 'number', or 'bool'.", "command", name, "param", paramDef.Name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	logger.Debug("Registry validation passed.", "commands", len(r.DefinitionRegistry))
	return nil
}

// checkParamCompat verifies that a value of the declared manifest type can
// be decoded into the given Go parameter type.
func checkParamCompat(manifestType cty.Type, optional bool, goType reflect.Type) error {
	// cty.Value and interface{} parameters accept anything; the decode
	// layer hands them the raw value.
	if goType == ctyValueType || goType.Kind() == reflect.Interface {
		return nil
	}
	if manifestType.Equals(cty.DynamicPseudoType) {
		return nil
	}

	if optional && goType.Kind() != reflect.Ptr && !isNilable(goType) {
		return fmt.Errorf("optional param requires a pointer, slice, or map Go type, got %s", goType)
	}

	target := goType
	for target.Kind() == reflect.Ptr {
		target = target.Elem()
	}

	impliedType, err := gocty.ImpliedType(reflect.Zero(target).Interface())
	if err != nil {
		return fmt.Errorf("could not imply cty type from Go type %s: %v", goType, err)
	}

	if _, err := convert.Convert(cty.UnknownVal(manifestType), impliedType); err != nil {
		return fmt.Errorf("manifest type %s is not convertible to Go type %s: %v", manifestType.FriendlyName(), goType, err)
	}
	return nil
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
