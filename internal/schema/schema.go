package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Manifest schemas (raw HCL shape) ---

// CommandBlock represents a `command` block as it appears in a manifest
// file, before type expressions are translated.
type CommandBlock struct {
	Name   string        `hcl:"name,label"`
	Async  bool          `hcl:"async,optional"`
	Params []*ParamBlock `hcl:"param,block"`
}

// ParamBlock represents a single ordered `param` block inside a command.
type ParamBlock struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Optional bool           `hcl:"optional,optional"`
}

// --- Translated definitions (what the registry and marshaler consume) ---

// CommandDefinition is the wire contract of one command: its name, its
// ordered positional parameters, and the declaration-side async flag.
// Definitions are built once at startup and never mutated afterwards.
type CommandDefinition struct {
	Name   string
	Async  bool
	Params []*ParamDefinition
}

// ParamDefinition is one positional parameter. Position is the zero-based
// index of the param block within its command declaration.
type ParamDefinition struct {
	Name     string
	Position int
	Type     cty.Type
	Optional bool
}
