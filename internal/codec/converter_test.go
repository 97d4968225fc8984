package codec

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func param(name string, pos int, ty cty.Type) *schema.ParamDefinition {
	return &schema.ParamDefinition{Name: name, Position: pos, Type: ty}
}

func rawArgs(parts ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(parts))
	for i, p := range parts {
		out[i] = json.RawMessage(p)
	}
	return out
}

func TestDecodeArgs_ArityCheckedFirst(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{
		param("name", 0, cty.String),
		param("is_formal", 1, cty.Bool),
	}
	goTypes := []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(false)}

	// Fewer than declared. The single supplied value is garbage for every
	// position, proving the arity check runs before any decoding.
	_, err := c.DecodeArgs(context.Background(), "greeting", params, goTypes, rawArgs(`{"not": "a string"}`))
	var countErr *callerr.ArgumentCountMismatch
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, "greeting", countErr.Function)
	assert.Equal(t, 2, countErr.Expected)
	assert.Equal(t, 1, countErr.Actual)

	// More than declared.
	_, err = c.DecodeArgs(context.Background(), "greeting", params, goTypes, rawArgs(`"Ada"`, `true`, `"extra"`))
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 2, countErr.Expected)
	assert.Equal(t, 3, countErr.Actual)
}

func TestDecodeArgs_Scalars(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{
		param("name", 0, cty.String),
		param("is_formal", 1, cty.Bool),
		param("seconds", 2, cty.Number),
	}
	goTypes := []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(false), reflect.TypeOf(float64(0))}

	args, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`"Ada"`, `true`, `-1.5`))
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, "Ada", args[0].Interface())
	assert.Equal(t, true, args[1].Interface())
	assert.Equal(t, -1.5, args[2].Interface())
}

func TestDecodeArgs_WrongShapeFailsFast(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{
		param("name", 0, cty.String),
		param("is_formal", 1, cty.Bool),
		param("seconds", 2, cty.Number),
	}
	goTypes := []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(false), reflect.TypeOf(float64(0))}

	// Positions 1 and 2 are both undecodable; only position 1 is reported.
	_, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`"Ada"`, `"not a bool"`, `"not a number"`))
	var decErr *callerr.DecodingError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "cmd", decErr.Function)
	assert.Equal(t, "is_formal", decErr.Parameter)
	assert.Equal(t, 1, decErr.Position)
}

func TestDecodeArgs_Collections(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{param("names", 0, cty.List(cty.String))}
	goTypes := []reflect.Type{reflect.TypeOf([]string{})}

	args, err := c.DecodeArgs(context.Background(), "greetings", params, goTypes, rawArgs(`["Ada", "Grace"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Grace"}, args[0].Interface())
}

func TestDecodeArgs_CompositeFailureReportsArgumentPosition(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{
		param("label", 0, cty.String),
		param("scores", 1, cty.List(cty.Number)),
	}
	goTypes := []reflect.Type{reflect.TypeOf(""), reflect.TypeOf([]float64{})}

	// The failure is inside the composite, but it is attributed to the
	// argument's position, not a sub-index.
	_, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`"run"`, `["1", "abc"]`))
	var decErr *callerr.DecodingError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "scores", decErr.Parameter)
	assert.Equal(t, 1, decErr.Position)
}

func TestDecodeArgs_OptionalNull(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{
		{Name: "value", Position: 0, Type: cty.String, Optional: true},
	}
	goTypes := []reflect.Type{reflect.TypeOf((*string)(nil))}

	// Present-but-null decodes to an absent domain value, not an error.
	args, err := c.DecodeArgs(context.Background(), "optionals", params, goTypes, rawArgs(`null`))
	require.NoError(t, err)
	assert.Nil(t, args[0].Interface().(*string))

	args, err = c.DecodeArgs(context.Background(), "optionals", params, goTypes, rawArgs(`"hi"`))
	require.NoError(t, err)
	ptr := args[0].Interface().(*string)
	require.NotNil(t, ptr)
	assert.Equal(t, "hi", *ptr)
}

func TestDecodeArgs_AnyParam(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{param("extra", 0, cty.DynamicPseudoType)}
	goTypes := []reflect.Type{reflect.TypeOf((*any)(nil)).Elem()}

	args, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`{"a": 1, "b": "two"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "two"}, args[0].Interface())
}

func TestDecodeArgs_StructParam(t *testing.T) {
	t.Parallel()

	type Color struct {
		Red   float64 `cty:"red"`
		Green float64 `cty:"green"`
		Blue  float64 `cty:"blue"`
	}

	c := NewConverter()
	objType := cty.Object(map[string]cty.Type{
		"red":   cty.Number,
		"green": cty.Number,
		"blue":  cty.Number,
	})
	params := []*schema.ParamDefinition{param("color", 0, objType)}
	goTypes := []reflect.Type{reflect.TypeOf(Color{})}

	args, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`{"red": 1, "green": 0, "blue": 0.5}`))
	require.NoError(t, err)
	assert.Equal(t, Color{Red: 1, Blue: 0.5}, args[0].Interface())
}

func TestDecodeArgs_CtyValueParam(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	params := []*schema.ParamDefinition{param("raw", 0, cty.String)}
	goTypes := []reflect.Type{reflect.TypeOf(cty.Value{})}

	args, err := c.DecodeArgs(context.Background(), "cmd", params, goTypes, rawArgs(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("hello"), args[0].Interface())
}

func TestEncodeResult(t *testing.T) {
	t.Parallel()

	type Color struct {
		Red   float64 `cty:"red"`
		Green float64 `cty:"green"`
		Blue  float64 `cty:"blue"`
	}

	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "Hello Mr/Ms Ada!", `"Hello Mr/Ms Ada!"`},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"float", 1.5, `1.5`},
		{"string slice", []string{"Hello Ada!"}, `["Hello Ada!"]`},
		{"string map", map[string]string{"a": "b"}, `{"a":"b"}`},
		{"tagged struct", Color{Red: 1}, `{"blue":0,"green":0,"red":1}`},
		{"nil", nil, `null`},
		{"typed nil pointer", (*string)(nil), `null`},
		{"cty value", cty.ObjectVal(map[string]cty.Value{"ok": cty.True}), `{"ok":true}`},
		{"nil cty value", cty.NilVal, `null`},
	}

	c := NewConverter()
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := c.EncodeResult(tc.value)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(out))
		})
	}
}

func TestEncodeResult_Unencodable(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	_, err := c.EncodeResult(struct{ Ch chan int }{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to serialize result")
}
