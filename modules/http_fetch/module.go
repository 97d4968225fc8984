package http_fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vk/cmdbridgego/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"resty.dev/v3"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCallHTTPFetch is the handler for the 'http_fetch' command. Extensions
// that cannot reach the network themselves call through the host with it.
func OnCallHTTPFetch(ctx context.Context, url string, method *string) (cty.Value, error) {
	m := http.MethodGet
	if method != nil && *method != "" {
		m = strings.ToUpper(*method)
	}
	slog.Info("Making HTTP request.", "method", m, "url", url)

	client := resty.New()
	defer client.Close()

	resp, err := client.R().SetContext(ctx).Execute(m, url)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	slog.Info("Received HTTP response.", "status", resp.Status())

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode())),
		"body":        cty.StringVal(resp.String()),
	}), nil
}

// Register registers the handler with the bridge.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommand("http_fetch", &registry.RegisteredCommand{
		Fn: OnCallHTTPFetch,
	})
}
