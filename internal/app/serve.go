package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/natsbridge"
)

// RunServe runs the same frozen registry as a persistent NATS
// request/reply service. It blocks until the context is cancelled or a
// termination signal arrives.
func (a *App) RunServe(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nc, err := natsbridge.Connect(a.config.NATSURL, a.config.ServiceName)
	if err != nil {
		return err
	}
	defer nc.Close()

	return natsbridge.Serve(ctx, nc, a.config.Subject, a.dispatcher)
}
