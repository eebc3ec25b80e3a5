//go:build gosseract

package ocr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInitConfigCarriesEngineMode(t *testing.T) {
	path, cleanup, err := writeInitConfig()
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tessedit_ocr_engine_mode 1\n", string(b))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
