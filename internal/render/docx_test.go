package render

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func TestDocx_ProducesValidArchive(t *testing.T) {
	data, err := Docx("Hallo Welt\nZweite Zeile")
	require.NoError(t, err)

	files := readArchive(t, data)
	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "_rels/.rels")
	require.Contains(t, files, "word/document.xml")

	doc := files["word/document.xml"]
	assert.Contains(t, doc, "Hallo Welt")
	assert.Contains(t, doc, "Zweite Zeile")
	// One paragraph per line.
	assert.Equal(t, 2, bytes.Count([]byte(doc), []byte("<w:p>")))
}

func TestDocx_EscapesMarkup(t *testing.T) {
	data, err := Docx(`a < b & c > "d"`)
	require.NoError(t, err)

	doc := readArchive(t, data)["word/document.xml"]
	assert.Contains(t, doc, "a &lt; b &amp; c &gt;")
	assert.NotContains(t, doc, `a < b`)
}
