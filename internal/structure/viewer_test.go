package structure

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderViewer(t *testing.T) {
	var buf bytes.Buffer
	err := RenderViewer(&buf, "ATOM </script>", []Selection{{"57", "A"}}, ViewOptions{Color: "blue", Radius: 9})
	require.NoError(t, err)
	page := buf.String()

	assert.Contains(t, page, "3Dmol-min.js")
	assert.Contains(t, page, `"resi":"57"`)
	assert.Contains(t, page, `"chain":"A"`)
	assert.Contains(t, page, `color: "blue"`)
	assert.Regexp(t, `radius:\s+5\b`, page)
	assert.Contains(t, page, "width: 800px")
	assert.NotContains(t, page, "ATOM </script>")
}

func TestRenderViewerRejectsColor(t *testing.T) {
	err := RenderViewer(&bytes.Buffer{}, "", nil, ViewOptions{Color: "purple"})
	assert.ErrorContains(t, err, "purple")
}

func TestRenderViewerWithoutSelections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderViewer(&buf, "", nil, ViewOptions{Radius: 0.01}))
	assert.Contains(t, buf.String(), "const selections = []")
	assert.Regexp(t, `radius:\s+0\.1\b`, buf.String())
}

func TestWriteViewerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view", "index.html")
	require.NoError(t, WriteViewerFile(path, "", nil, ViewOptions{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Structure view")
}
