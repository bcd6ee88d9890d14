package extract

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPlainTextFallback(t *testing.T) {
	e := New(nil)
	text, err := e.Extract("resume.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.Equal(t, "hello world", text)

	// Unknown extensions go through the same fallback.
	text, err = e.Extract("resume.md", strings.NewReader("# heading"))
	require.NoError(t, err)
	require.Equal(t, "# heading", text)
}

func TestExtractUsesRegisteredReader(t *testing.T) {
	e := New(map[string]Reader{
		".PDF": func(r io.Reader) (string, error) { return "from pdf reader", nil },
	})

	// Extension matching is case insensitive both ways.
	text, err := e.Extract("Resume.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "from pdf reader", text)
}

func TestExtractPropagatesReaderError(t *testing.T) {
	wantErr := errors.New("corrupt file")
	e := New(map[string]Reader{
		".docx": func(r io.Reader) (string, error) { return "", wantErr },
	})

	_, err := e.Extract("resume.docx", strings.NewReader(""))
	require.ErrorIs(t, err, wantErr)
}
