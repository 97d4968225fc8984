package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// RegisteredCommand holds the compiled Go half of one command: the handler
// function plus the reflect metadata precomputed at registration so that
// dispatch never re-derives it per call.
type RegisteredCommand struct {
	// Fn is the handler. Accepted shapes:
	//   func(ctx context.Context, p1 T1, ..., pN TN) (R, error)
	//   func(ctx context.Context, p1 T1, ..., pN TN) R
	//   func(ctx context.Context, p1 T1, ..., pN TN) error
	//   func(ctx context.Context, p1 T1, ..., pN TN)
	Fn any

	fn       reflect.Value
	params   []reflect.Type
	fallible bool
	returns  bool
}

// NumParams returns the number of positional parameters the handler takes,
// not counting the leading context.
func (c *RegisteredCommand) NumParams() int { return len(c.params) }

// ParamType returns the Go type of the i-th positional parameter.
func (c *RegisteredCommand) ParamType(i int) reflect.Type { return c.params[i] }

// Fallible reports whether the handler declares a trailing error return.
func (c *RegisteredCommand) Fallible() bool { return c.fallible }

// Call invokes the handler with the fully decoded arguments and unifies
// the plain and fallible return shapes into one (value, error) pair. A
// handler with no value return yields a nil value.
func (c *RegisteredCommand) Call(ctx context.Context, args []reflect.Value) (any, error) {
	callArgs := make([]reflect.Value, 0, len(args)+1)
	callArgs = append(callArgs, reflect.ValueOf(ctx))
	callArgs = append(callArgs, args...)

	results := c.fn.Call(callArgs)

	var value any
	if c.returns {
		value = results[0].Interface()
	}
	if c.fallible {
		if errResult := results[len(results)-1].Interface(); errResult != nil {
			return nil, errResult.(error)
		}
	}
	return value, nil
}

// RegisterCommand registers a Go handler under a command name. It panics
// on a duplicate name or a handler that does not match one of the accepted
// shapes; both are programmer errors that must surface at startup, never
// at dispatch time.
func (r *Registry) RegisterCommand(name string, cmd *RegisteredCommand) {
	if _, exists := r.HandlerRegistry[name]; exists {
		panic(fmt.Sprintf("command handler with name '%s' already registered", name))
	}
	if err := cmd.compile(); err != nil {
		panic(fmt.Sprintf("command handler '%s': %v", name, err))
	}
	slog.Debug("Registering command handler.", "name", name, "params", cmd.NumParams(), "fallible", cmd.fallible)
	r.HandlerRegistry[name] = cmd
}

// compile derives and caches the reflect metadata for the handler.
func (c *RegisteredCommand) compile() error {
	fnVal := reflect.ValueOf(c.Fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return fmt.Errorf("Fn must be a function, got %T", c.Fn)
	}
	fnType := fnVal.Type()

	if fnType.NumIn() < 1 || fnType.In(0) != contextType {
		return fmt.Errorf("handler's first parameter must be context.Context")
	}
	if fnType.IsVariadic() {
		return fmt.Errorf("variadic handlers are not supported")
	}

	switch fnType.NumOut() {
	case 0:
		// Fire-and-forget shape; the call yields null.
	case 1:
		if fnType.Out(0) == errorType {
			c.fallible = true
		} else {
			c.returns = true
		}
	case 2:
		if fnType.Out(1) != errorType {
			return fmt.Errorf("handler's second return value must be error, got %s", fnType.Out(1))
		}
		c.returns = true
		c.fallible = true
	default:
		return fmt.Errorf("handler may return at most two values, got %d", fnType.NumOut())
	}

	c.fn = fnVal
	c.params = make([]reflect.Type, 0, fnType.NumIn()-1)
	for i := 1; i < fnType.NumIn(); i++ {
		c.params = append(c.params, fnType.In(i))
	}
	return nil
}
