// Package tee runs a shell command line, streaming its combined output to a
// writer while keeping a copy for later processing.
package tee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrCommandFile = errors.New("invalid command line file")

// colorEnv is the set of variables honoured by common tools to emit color
// when stdout is not a terminal.
var colorEnv = []string{"FORCE_COLOR=1", "CLICOLOR_FORCE=1"}

// Options configures Run.
type Options struct {
	// Stream receives output as it is produced; nil discards it.
	Stream io.Writer
	Stdin  io.Reader
	// Dir is the working directory; empty means the current one.
	Dir        string
	ForceColor bool
	Logger     *zap.SugaredLogger
}

// Result describes a finished command.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// ResolveCommandLine returns arg unchanged unless it starts with '@', in which
// case the rest names a file whose trimmed content is the command line.
func ResolveCommandLine(arg string) (string, error) {
	filename, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	info, err := os.Stat(filename)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: '%s' is not a valid file name for the command line argument '%s'", ErrCommandFile, filename, arg)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCommandFile, err)
	}
	return strings.TrimSpace(string(content)), nil
}

// Shell returns the interpreter and flag used to run a command line.
func Shell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}

// Run executes commandLine through the platform shell. A non-zero exit is
// reported in Result.ExitCode, not as an error; errors mean the command could
// not be started or waited for.
func Run(ctx context.Context, commandLine string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if strings.TrimSpace(commandLine) == "" {
		return Result{}, errors.New("command line is empty")
	}

	shell, flag := Shell()
	cmd := exec.CommandContext(ctx, shell, flag, commandLine)
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin
	cmd.Env = os.Environ()
	if opts.ForceColor {
		cmd.Env = append(cmd.Env, colorEnv...)
	}

	captured := &bytes.Buffer{}
	var out io.Writer = captured
	if opts.Stream != nil {
		out = io.MultiWriter(captured, opts.Stream)
	}
	// a single comparable writer keeps stdout and stderr writes serialized
	cmd.Stdout = out
	cmd.Stderr = out

	logger.Debugw("Running command", "shell", shell, "commandLine", commandLine, "forceColor", opts.ForceColor)
	start := time.Now()
	err := cmd.Run()
	result := Result{Output: captured.String(), Duration: time.Since(start)}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			result.ExitCode = 1
		}
	default:
		return result, fmt.Errorf("failed to run command: %w", err)
	}
	logger.Infow("Command finished", "exitCode", result.ExitCode, "duration", result.Duration, "bytes", captured.Len())
	return result, nil
}
