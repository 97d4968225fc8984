package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/cmdbridgego/internal/app"
	"github.com/vk/cmdbridgego/internal/cli"
	"github.com/vk/cmdbridgego/internal/hcl"
)

// main is the entrypoint for the cmdbridgego binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Call outcomes go to outW; diagnostics and logs go to diagW.
func run(inR io.Reader, outW, diagW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, diagW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to
	// provide a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical startup error occurred: %v", r)
		}
	}()

	loader := hcl.NewLoader()
	bridgeApp := app.NewApp(outW, diagW, appConfig, loader)

	ctx := context.Background()
	if appConfig.Serve {
		return bridgeApp.RunServe(ctx)
	}
	return bridgeApp.Run(ctx, inR)
}
