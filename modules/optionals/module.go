package optionals

import (
	"context"
	"fmt"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallOptionals is the handler for the 'optionals' command. A JSON null
// argument arrives as a nil pointer, and a nil return encodes as null.
func OnCallOptionals(ctx context.Context, value *string) *string {
	if value == nil {
		return nil
	}
	out := fmt.Sprintf("Got: %s", *value)
	return &out
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("optionals", &registry.RegisteredCommand{
		Fn: OnCallOptionals,
	})
}
