package colors

import (
	"context"
	"fmt"

	"github.com/vk/cmdbridgego/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Color is an RGB triple with channels in the 0..1 range.
type Color struct {
	Red   float64 `cty:"red"`
	Green float64 `cty:"green"`
	Blue  float64 `cty:"blue"`
}

// OnCallPickColor is the handler for the 'pick_color' command. Unknown
// color names are a domain failure, not a dispatch failure.
func OnCallPickColor(ctx context.Context, name string) (Color, error) {
	switch name {
	case "red":
		return Color{Red: 1}, nil
	case "green":
		return Color{Green: 1}, nil
	case "blue":
		return Color{Blue: 1}, nil
	default:
		return Color{}, fmt.Errorf("%s is not a supported color", name)
	}
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("pick_color", &registry.RegisteredCommand{
		Fn: OnCallPickColor,
	})
}
