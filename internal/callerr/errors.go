package callerr

import "fmt"

// Envelope codes used by serve mode. Each structured error type maps to
// exactly one code.
const (
	CodeMissingArgument       = "MISSING_ARGUMENT"
	CodeArgumentCountMismatch = "ARGUMENT_COUNT_MISMATCH"
	CodeDecodingError         = "DECODING_ERROR"
	CodeFunctionNotFound      = "FUNCTION_NOT_FOUND"
	CodeExecutionError        = "EXECUTION_ERROR"
	CodeJSONError             = "JSON_ERROR"
	CodeBadRequest            = "BAD_REQUEST"
)

// MissingArgument reports a declared parameter position with no supplied
// value. After the arity check this is a defensive guard only.
type MissingArgument struct {
	Function  string
	Parameter string
	Position  int
}

func (e *MissingArgument) Error() string {
	return fmt.Sprintf("Missing argument for function '%s', parameter '%s' at position %d",
		e.Function, e.Parameter, e.Position)
}

// ArgumentCountMismatch reports a supplied argument count that differs from
// the command's declared parameter count.
type ArgumentCountMismatch struct {
	Function string
	Expected int
	Actual   int
}

func (e *ArgumentCountMismatch) Error() string {
	return fmt.Sprintf("Argument count mismatch for function '%s': expected %d, got %d",
		e.Function, e.Expected, e.Actual)
}

// DecodingError reports a supplied JSON value that could not be converted
// into the declared parameter type. A failure anywhere inside a composite
// argument is reported against that argument's position.
type DecodingError struct {
	Function  string
	Parameter string
	Position  int
	Err       error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("Failed to decode parameter '%s' at position %d for function '%s': %v",
		e.Parameter, e.Position, e.Function, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// FunctionNotFound reports a command name with no registered descriptor.
type FunctionNotFound struct {
	Function string
}

func (e *FunctionNotFound) Error() string {
	return fmt.Sprintf("Function '%s' not found", e.Function)
}

// ExecutionError reports a handler's own failure, or a result that could
// not be encoded to JSON. Only the rendered text of the underlying failure
// crosses this boundary.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("Function execution failed: %s", e.Message)
}

// JSONError reports ambient input that could not be parsed as a JSON array
// of arguments at all. Per-argument decode failures are DecodingError, not
// JSONError.
type JSONError struct {
	Message string
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("JSON parsing error: %s", e.Message)
}

// Code returns the envelope code for err, or CodeExecutionError for any
// error that is not part of the call-scoped taxonomy.
func Code(err error) string {
	switch err.(type) {
	case *MissingArgument:
		return CodeMissingArgument
	case *ArgumentCountMismatch:
		return CodeArgumentCountMismatch
	case *DecodingError:
		return CodeDecodingError
	case *FunctionNotFound:
		return CodeFunctionNotFound
	case *ExecutionError:
		return CodeExecutionError
	case *JSONError:
		return CodeJSONError
	default:
		return CodeExecutionError
	}
}
