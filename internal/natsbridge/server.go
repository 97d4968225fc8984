package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/dispatch"
)

// Serve subscribes to the given subject and answers call requests until
// the context is cancelled, then drains the subscription. Each request is
// handled on its own goroutine.
func Serve(ctx context.Context, nc *nats.Conn, subject string, d *dispatch.Dispatcher) error {
	logger := ctxlog.FromContext(ctx)

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		go handle(ctx, d, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}
	logger.Info("Serving call requests.", "subject", subject)

	<-ctx.Done()

	logger.Info("Shutting down, draining subscription.")
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("failed to drain subscription: %w", err)
	}
	return nil
}

// handle runs one call and replies with its outcome envelope.
func handle(ctx context.Context, d *dispatch.Dispatcher, msg *nats.Msg) {
	logger := ctxlog.FromContext(ctx)

	var req CallRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		respond(ctx, msg, &CallResponse{
			Ok: false,
			Error: &ErrorDetail{
				Code:    callerr.CodeBadRequest,
				Message: fmt.Sprintf("failed to parse call request: %v", err),
			},
		})
		return
	}
	logger.Debug("Handling call request.", "id", req.ID, "command", req.Command)

	result, err := d.Dispatch(ctx, req.Command, req.Args)
	if err != nil {
		respond(ctx, msg, &CallResponse{
			ID: req.ID,
			Ok: false,
			Error: &ErrorDetail{
				Code:    callerr.Code(err),
				Message: err.Error(),
			},
		})
		return
	}

	respond(ctx, msg, &CallResponse{ID: req.ID, Ok: true, Result: result})
}

func respond(ctx context.Context, msg *nats.Msg, resp *CallResponse) {
	logger := ctxlog.FromContext(ctx)

	payload, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to marshal call response.", "error", err)
		return
	}
	if err := msg.Respond(payload); err != nil {
		logger.Error("Failed to send call response.", "error", err)
	}
}
