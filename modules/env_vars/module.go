package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallEnvVars is the handler for the 'env_vars' command. It returns a
// snapshot of the host process environment.
func OnCallEnvVars(ctx context.Context) map[string]string {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("env_vars", &registry.RegisteredCommand{
		Fn: OnCallEnvVars,
	})
}
