package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/gridware/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("gridware", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Gridware - compiles a typed node workflow into a generation request.

Usage:
  gridware [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a single .hcl workflow document.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow document.")
	wFlag := flagSet.String("w", "", "Path to the workflow document (shorthand).")
	catalogFlag := flagSet.String("catalog", "catalog", "Path to the directory containing node-type manifests.")
	backendFlag := flagSet.String("backend", "", "Base URL of the generation backend. Empty compiles without dispatching.")
	advanceFlag := flagSet.String("advance", "before", "When to advance control fields. Options: 'before', 'after' or 'off'.")
	ackFlag := flagSet.Bool("acknowledge-warnings", false, "Allow dispatch despite advisory warnings.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	seedFlag := flagSet.Int64("seed", 0, "Seed for control-field randomization. 0 uses a time-based seed.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
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

	advance := strings.ToLower(*advanceFlag)
	switch advance {
	case app.AdvanceBefore, app.AdvanceAfter, app.AdvanceOff:
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid advance: must be 'before', 'after' or 'off'"}
	}

	return &app.Config{
		WorkflowPath:        path,
		CatalogPath:         *catalogFlag,
		BackendURL:          *backendFlag,
		Advance:             advance,
		AcknowledgeWarnings: *ackFlag,
		LogFormat:           logFormat,
		LogLevel:            logLevel,
		Seed:                *seedFlag,
	}, false, nil
}
