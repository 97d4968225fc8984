package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/cmdbridgego/internal/callerr"
	"github.com/vk/cmdbridgego/internal/ctxlog"
)

// Run executes one call: read the JSON argument array from in, dispatch
// the configured command once, and write the JSON result as a single line
// to the output writer. The returned error, if any, is one of the callerr
// taxonomy and is rendered for humans by the caller only.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	args, err := readArgs(in)
	if err != nil {
		return err
	}
	a.logger.Debug("Arguments read from input.", "count", len(args))

	result, err := a.dispatcher.Dispatch(ctx, a.config.Command, args)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.outW, string(result))
	a.logger.Debug("App.Run method finished.")
	return nil
}

// readArgs consumes the ambient input channel fully and parses it as a
// JSON array of positional arguments. Blank input is an empty argument
// list, not an error.
func readArgs(in io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, &callerr.JSONError{Message: fmt.Sprintf("Failed to read from stdin: %v", err)}
	}

	if strings.TrimSpace(string(data)) == "" {
		return []json.RawMessage{}, nil
	}

	var args []json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, &callerr.JSONError{Message: fmt.Sprintf("Failed to parse JSON arguments: %v", err)}
	}
	return args, nil
}
