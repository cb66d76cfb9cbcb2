package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMissingFile(t *testing.T) {
	assert.Empty(t, Extract("/nonexistent/file.pdf"))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeTempDoc(t, "image.png", "not really an image")
	assert.Empty(t, Extract(path))
}

func TestExtractCorruptPDF(t *testing.T) {
	path := writeTempDoc(t, "broken.pdf", "this is not a pdf at all")
	assert.Empty(t, Extract(path))
}

func TestExtractPlainText(t *testing.T) {
	path := writeTempDoc(t, "notes.txt", "  Cells contain organelles.\nOrganelles divide labor.  \n")
	got := Extract(path)
	assert.Equal(t, "Cells contain organelles.\nOrganelles divide labor.", got)
}

func TestExtractMarkdownStripsMarkup(t *testing.T) {
	path := writeTempDoc(t, "notes.md", "# Cell Structure\n\nCells contain *organelles*.\n\n- membrane\n- nucleus\n")
	got := Extract(path)

	assert.Contains(t, got, "Cell Structure")
	assert.Contains(t, got, "Cells contain organelles.")
	assert.Contains(t, got, "membrane")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "*")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("slides/lecture.PDF"))
	assert.True(t, Supported("notes.md"))
	assert.True(t, Supported("sheet.xlsx"))
	assert.False(t, Supported("photo.png"))
	assert.False(t, Supported("archive"))
}
