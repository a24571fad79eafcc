package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/smtpmailer/pkg/metrics"
)

// ExitError carries a process exit code. A nil Err means the code alone is
// reported, without an error message.
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

func (e *ExitError) Unwrap() error { return e.Err }

// Execute runs root with ctx, writes the metrics file when requested and
// returns the process exit code. Errors are printed once to the error writer.
func Execute(ctx context.Context, root *cobra.Command) int {
	rt, err := getRuntime(root)
	if err != nil {
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}

	err = root.ExecuteContext(context.WithValue(ctx, runtimeKey{}, rt))
	if mErr := metrics.WriteTextfile(rt.metricsFile); mErr != nil {
		rt.Logger().Warnw("Failed to write metrics file", "path", rt.metricsFile, "error", mErr)
	}
	_ = rt.Logger().Sync()
	return exitCode(rt, err)
}

func exitCode(rt *runtimeState, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = fmt.Fprintf(rt.ErrWriter(), "Error: %v\n", exitErr.Err)
		}
		if exitErr.Code == 0 {
			return 1
		}
		return exitErr.Code
	}
	_, _ = fmt.Fprintf(rt.ErrWriter(), "Error: %v\n", err)
	return 1
}
