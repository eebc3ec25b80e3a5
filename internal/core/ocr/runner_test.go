package ocr

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerMissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "certscan-no-such-tesseract", "--version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestExecRunnerExitCarriesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, _, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo partial; echo 'Error opening data file' >&2; exit 3")
	require.Error(t, err)

	var xe *ExecError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, 3, xe.ExitCode)
	assert.Equal(t, "Error opening data file", xe.Stderr)
	assert.Equal(t, "partial\n", string(out))
	assert.Contains(t, err.Error(), "sh exited 3")
}

func TestExecRunnerContextDeadline(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := ExecRunner{}.Run(ctx, "sleep", "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	var xe *ExecError
	assert.False(t, errors.As(err, &xe))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.True(t, strings.HasPrefix(truncate("abcdef", 3), "abc..."))
}
