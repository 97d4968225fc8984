package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/codec"
	"github.com/vk/cmdbridgego/internal/dispatch"
	"github.com/vk/cmdbridgego/internal/registry"
	"github.com/vk/cmdbridgego/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// startTestServer starts an in-process NATS server on a random port and
// returns a connected client.
func startTestServer(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("embedded server failed to start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	nc, err := nats.Connect(ns.ClientURL(), nats.Timeout(5*time.Second))
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	return nc
}

// startServe runs Serve on the given subject and tears it down with the test.
func startServe(t *testing.T, nc *nats.Conn, subject string, d *dispatch.Dispatcher) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, nc, subject, d) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Serve did not shut down")
		}
	})

	// Subscription interest propagates asynchronously.
	require.NoError(t, nc.Flush())
}

func newTestDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()

	reg := registry.New()
	reg.RegisterCommand("greeting", &registry.RegisteredCommand{
		Fn: func(ctx context.Context, name string) string {
			return fmt.Sprintf("Hello %s!", name)
		},
	})
	reg.RegisterCommand("fail", &registry.RegisteredCommand{
		Fn: func(ctx context.Context) error {
			return fmt.Errorf("deliberate failure")
		},
	})
	reg.PopulateDefinitions(map[string]*schema.CommandDefinition{
		"greeting": {Name: "greeting", Params: []*schema.ParamDefinition{
			{Name: "name", Position: 0, Type: cty.String},
		}},
		"fail": {Name: "fail"},
	})
	require.NoError(t, reg.ValidateRegistry(context.Background()))

	return dispatch.New(reg, codec.NewConverter())
}

func call(t *testing.T, nc *nats.Conn, subject string, payload []byte) *CallResponse {
	t.Helper()

	msg, err := nc.Request(subject, payload, 5*time.Second)
	require.NoError(t, err)

	var resp CallResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	return &resp
}

func TestServe_SuccessRoundtrip(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	resp := call(t, nc, "cmdbridge.call", []byte(`{"id":"req-1","command":"greeting","args":["\"Ada\""]}`))

	assert.Equal(t, "req-1", resp.ID)
	assert.True(t, resp.Ok)
	assert.Nil(t, resp.Error)
	assert.Equal(t, `"Hello Ada!"`, string(resp.Result))
}

func TestServe_FunctionNotFound(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	resp := call(t, nc, "cmdbridge.call", []byte(`{"id":"req-2","command":"unknown_cmd","args":[]}`))

	assert.Equal(t, "req-2", resp.ID)
	assert.False(t, resp.Ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, callerr.CodeFunctionNotFound, resp.Error.Code)
	assert.Equal(t, "Function 'unknown_cmd' not found", resp.Error.Message)
}

func TestServe_ExecutionError(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	resp := call(t, nc, "cmdbridge.call", []byte(`{"id":"req-3","command":"fail","args":[]}`))

	assert.False(t, resp.Ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, callerr.CodeExecutionError, resp.Error.Code)
	assert.Equal(t, "Function execution failed: deliberate failure", resp.Error.Message)
}

func TestServe_ArgumentCountMismatch(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	resp := call(t, nc, "cmdbridge.call", []byte(`{"id":"req-4","command":"greeting","args":[]}`))

	assert.False(t, resp.Ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, callerr.CodeArgumentCountMismatch, resp.Error.Code)
}

func TestServe_BadEnvelope(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	resp := call(t, nc, "cmdbridge.call", []byte(`not json`))

	assert.False(t, resp.Ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, callerr.CodeBadRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to parse call request")
}

func TestServe_ConcurrentCalls(t *testing.T) {
	nc := startTestServer(t)
	startServe(t, nc, "cmdbridge.call", newTestDispatcher(t))

	results := make(chan *CallResponse, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			payload := fmt.Sprintf(`{"id":"req-%d","command":"greeting","args":["\"caller-%d\""]}`, i, i)
			msg, err := nc.Request("cmdbridge.call", []byte(payload), 5*time.Second)
			if err != nil {
				results <- nil
				return
			}
			var resp CallResponse
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				results <- nil
				return
			}
			results <- &resp
		}(i)
	}

	for i := 0; i < 8; i++ {
		resp := <-results
		require.NotNil(t, resp)
		assert.True(t, resp.Ok)
		assert.Equal(t, fmt.Sprintf(`"Hello caller-%s!"`, resp.ID[len("req-"):]), string(resp.Result))
	}
}
