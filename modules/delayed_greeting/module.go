package delayed_greeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallDelayedGreeting is the handler for the 'delayed_greeting' command.
// It suspends for the requested number of seconds before answering, which
// makes it the canonical async command: the dispatch path is identical to
// a synchronous handler's.
func OnCallDelayedGreeting(ctx context.Context, name string, seconds float64) (string, error) {
	if seconds < 0 {
		return "", errors.New("Seconds must be non-negative")
	}

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	return fmt.Sprintf("... Hello %s!", name), nil
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("delayed_greeting", &registry.RegisteredCommand{
		Fn: OnCallDelayedGreeting,
	})
}
