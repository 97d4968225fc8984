package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbridgego/internal/app"
	"github.com/vk/cmdbridgego/internal/hcl"
	"github.com/vk/cmdbridgego/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// ModuleFunc adapts a plain function to the registry.Module interface so
// tests can register handlers inline.
type ModuleFunc func(r *registry.Registry)

// Register implements registry.Module.
func (f ModuleFunc) Register(r *registry.Registry) { f(r) }

// HarnessResult holds the outcomes of one end-to-end dispatch test run.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunDispatchTest provides a standardized harness for end-to-end call
// tests: it materializes the given manifest files into a temp directory,
// builds an App over the provided modules, runs one call with the given
// stdin payload, and captures stdout plus logs. Startup panics are
// recovered into the result's Err.
func RunDispatchTest(t *testing.T, manifests map[string]string, modules []registry.Module, command, input string) *HarnessResult {
	t.Helper()
	return RunDispatchTestWithContext(context.Background(), t, manifests, modules, command, input)
}

// RunDispatchTestWithContext is RunDispatchTest with a caller-provided context.
func RunDispatchTestWithContext(ctx context.Context, t *testing.T, manifests map[string]string, modules []registry.Module, command, input string) *HarnessResult {
	t.Helper()

	manifestsDir := t.TempDir()
	for name, content := range manifests {
		filePath := filepath.Join(manifestsDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig, err := app.NewConfig(app.Config{
		Command:       command,
		ManifestsPath: manifestsDir,
		LogLevel:      "debug",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	outBuffer := &bytes.Buffer{}
	result := &HarnessResult{}

	// Startup errors surface as panics; fold them into the result so
	// tests can assert on them like any other failure.
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("startup panicked: %v", r)
			}
		}()
		bridgeApp := app.NewApp(outBuffer, logBuffer, appConfig, hcl.NewLoader(), modules...)
		result.App = bridgeApp
		result.Err = bridgeApp.Run(ctx, strings.NewReader(input))
	}()

	result.Stdout = outBuffer.String()
	result.LogOutput = logBuffer.String()
	return result
}
