package noop

import (
	"context"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallNoop is the handler for the 'noop' command. It does nothing and
// the call yields null.
func OnCallNoop(ctx context.Context) {
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("noop", &registry.RegisteredCommand{
		Fn: OnCallNoop,
	})
}
