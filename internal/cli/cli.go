package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/cmdbridgego/internal/app"
	"github.com/vk/cmdbridgego/internal/envcfg"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments on top of environment defaults.
// It returns a populated app.Config, a boolean indicating if the program
// should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	env, err := envcfg.Load()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("cmdbridgego", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cmdbridgego - a JSON command bridge between an extension host and native handlers.

Usage:
  cmdbridgego [options] COMMAND

Arguments:
  COMMAND
    Name of the registered command to invoke. Positional JSON arguments
    are read from stdin as a single JSON array; empty input means [].

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestsFlag := flagSet.String("manifests-path", env.ManifestsPath, "Path to the directory containing command manifests.")
	logFormatFlag := flagSet.String("log-format", env.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	serveFlag := flagSet.Bool("serve", false, "Run as a persistent NATS request/reply service instead of a one-shot call.")
	natsURLFlag := flagSet.String("nats-url", env.NATSURL, "NATS server URL for --serve.")
	subjectFlag := flagSet.String("subject", env.Subject, "NATS subject to serve call requests on.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	command := ""
	if flagSet.NArg() > 0 {
		command = flagSet.Arg(0)
	}

	if command == "" && !*serveFlag {
		slog.Debug("No command name provided, printing usage.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "a command name is required (or pass --serve)"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:       command,
		ManifestsPath: *manifestsFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		Serve:         *serveFlag,
		NATSURL:       *natsURLFlag,
		Subject:       *subjectFlag,
		ServiceName:   env.ServiceName,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command, "serve", *serveFlag)
	return config, false, nil
}
