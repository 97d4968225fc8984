package greeting

import (
	"context"
	"fmt"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallGreeting is the handler for the 'greeting' command.
func OnCallGreeting(ctx context.Context, name string, isFormal bool) string {
	prefix := ""
	if isFormal {
		prefix = "Mr/Ms "
	}
	return fmt.Sprintf("Hello %s%s!", prefix, name)
}

// OnCallGreetings is the handler for the 'greetings' command. It greets
// every name in the list, in order.
func OnCallGreetings(ctx context.Context, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("Hello %s!", name))
	}
	return out
}

// Register registers the handlers with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("greeting", &registry.RegisteredCommand{
		Fn: OnCallGreeting,
	})
	r.RegisterCommand("greetings", &registry.RegisteredCommand{
		Fn: OnCallGreetings,
	})
}
