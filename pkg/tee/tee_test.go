package tee

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/smtpmailer/pkg/system"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell syntax")
	}
}

func TestResolveCommandLine(t *testing.T) {
	got, err := ResolveCommandLine("make test")
	require.NoError(t, err)
	assert.Equal(t, "make test", got)

	path := filepath.Join(t.TempDir(), "cmd.txt")
	require.NoError(t, os.WriteFile(path, []byte("  go test ./...\n\n"), 0o600))
	got, err = ResolveCommandLine("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "go test ./...", got)

	_, err = ResolveCommandLine("@" + filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, ErrCommandFile)
	assert.Contains(t, err.Error(), "is not a valid file name")

	_, err = ResolveCommandLine("@" + t.TempDir())
	require.ErrorIs(t, err, ErrCommandFile)
}

func TestRunCapturesAndStreams(t *testing.T) {
	skipOnWindows(t)
	stream := &bytes.Buffer{}

	result, err := Run(context.Background(), "echo out; echo err >&2; exit 3", Options{
		Stream: stream,
		Logger: system.NewTestLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Output, "out\n")
	assert.Contains(t, result.Output, "err\n")
	assert.Equal(t, result.Output, stream.String())
}

func TestRunSuccess(t *testing.T) {
	skipOnWindows(t)
	result, err := Run(context.Background(), "printf 'a b'", Options{})
	require.NoError(t, err)
	assert.Zero(t, result.ExitCode)
	assert.Equal(t, "a b", result.Output)
}

func TestRunForceColor(t *testing.T) {
	skipOnWindows(t)
	result, err := Run(context.Background(), `echo "$FORCE_COLOR:$CLICOLOR_FORCE"`, Options{ForceColor: true})
	require.NoError(t, err)
	assert.Equal(t, "1:1", strings.TrimSpace(result.Output))

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	result, err = Run(context.Background(), `echo "$FORCE_COLOR:$CLICOLOR_FORCE"`, Options{})
	require.NoError(t, err)
	assert.Equal(t, ":", strings.TrimSpace(result.Output))
}

func TestRunWorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("here"), 0o600))

	result, err := Run(context.Background(), "cat marker", Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "here", result.Output)
}

func TestRunStdin(t *testing.T) {
	skipOnWindows(t)
	result, err := Run(context.Background(), "cat", Options{Stdin: strings.NewReader("piped")})
	require.NoError(t, err)
	assert.Equal(t, "piped", result.Output)
}

func TestRunEmptyCommand(t *testing.T) {
	_, err := Run(context.Background(), "  ", Options{})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, "sleep 5", Options{})
	require.Error(t, err)
}
