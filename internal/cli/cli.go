// Package cli implements the inputparser command tree.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inputparser/internal/config"
	"inputparser/internal/logging"
)

// Exit codes returned by Execute.
const (
	ExitOK       = 0
	ExitInvalid  = 1 // invalid inputs under --strict, or a usage error
	ExitSchema   = 3
	ExitDocument = 4
	ExitOutput   = 5
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErr(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// app holds the state shared by the subcommands of one invocation.
type app struct {
	environ []string
	cfg     config.Config
	logger  *zap.Logger
}

// NewRootCommand builds the inputparser command. environ is the environment
// the command reads its settings and value overrides from.
func NewRootCommand(environ []string) *cobra.Command {
	a := &app{environ: environ, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "inputparser",
		Short:         "Validate user settings against a typed, constrained schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnviron(a.environ)
			if err != nil {
				return exitErr(ExitInvalid, "%w", err)
			}
			logger, err := logging.New(cfg, cmd.ErrOrStderr())
			if err != nil {
				return exitErr(ExitInvalid, "%w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.AddCommand(newCheckCommand(a), newConstraintsCommand())
	return root
}

// Execute runs the command tree with args and returns the process exit code.
// stdin is read when the document is given as "-".
func Execute(args, environ []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(environ)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			fmt.Fprintln(stderr, "Error:", ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return ExitInvalid
}
