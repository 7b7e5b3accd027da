package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText_ExtractsTxt(t *testing.T) {
	out, err := PlainText{}.ExtractText(context.Background(), []byte("hello world"), "notes.TXT")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestPlainText_RejectsOtherFormats(t *testing.T) {
	for _, name := range []string{"report.pdf", "report.docx", "report", "image.png"} {
		_, err := PlainText{}.ExtractText(context.Background(), []byte("data"), name)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "expected unsupported format for %s", name)
	}
}

func TestPlainText_RejectsInvalidUTF8(t *testing.T) {
	_, err := PlainText{}.ExtractText(context.Background(), []byte{0xff, 0xfe, 0xfd}, "notes.txt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestNoOCR_ReadsNothing(t *testing.T) {
	out, err := NoOCR{}.ReadText(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, out)
}
