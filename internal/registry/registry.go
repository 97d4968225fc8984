package registry

import (
	"github.com/vk/cmdbridgego/internal/schema"
)

// Module is the interface that all command modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered command handlers and their manifest
// definitions for a single application instance. It is populated once
// during startup and treated as read-only from the moment dispatch begins;
// no locking is needed after that point.
type Registry struct {
	HandlerRegistry    map[string]*RegisteredCommand
	DefinitionRegistry map[string]*schema.CommandDefinition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		HandlerRegistry:    make(map[string]*RegisteredCommand),
		DefinitionRegistry: make(map[string]*schema.CommandDefinition),
	}
}

// PopulateDefinitions copies the loaded manifest definitions into the
// registry for access during validation and dispatch.
func (r *Registry) PopulateDefinitions(defs map[string]*schema.CommandDefinition) {
	for name, def := range defs {
		r.DefinitionRegistry[name] = def
	}
}

// Lookup resolves a command name to its handler and definition. The second
// return is false when no command with that name is registered.
func (r *Registry) Lookup(name string) (*RegisteredCommand, *schema.CommandDefinition, bool) {
	handler, ok := r.HandlerRegistry[name]
	if !ok {
		return nil, nil, false
	}
	def, ok := r.DefinitionRegistry[name]
	if !ok {
		return nil, nil, false
	}
	return handler, def, true
}
