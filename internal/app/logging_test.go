package app

import (
	"bytes"
	"fmt"
	"testing"

	"fyne.io/fyne/v2/data/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogCaptureKeepsTail(t *testing.T) {
	b := binding.NewString()
	c := newLogCapture(b, 3)
	for i := 1; i <= 5; i++ {
		_, err := fmt.Fprintf(c, "line %d\r\n", i)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, c.Lines())
	text, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, "line 3\nline 4\nline 5", text)
}

func TestNewLoggerTeesOutput(t *testing.T) {
	var console bytes.Buffer
	pane := newLogCapture(binding.NewString(), 10)
	logger := newLogger(&console, pane)

	logger.Debug("debug only on console")
	logger.Info("merged predictions", zap.Int("rows", 3))

	assert.Contains(t, console.String(), "debug only on console")
	assert.Contains(t, console.String(), "merged predictions")
	lines := pane.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], `"rows": 3`)
}
