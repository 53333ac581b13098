package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	require.Equal(t, "/data/export 1", CleanPath(`"/data/export 1"`))
	require.Equal(t, "/data/x", CleanPath(`'/data/x'`))
	require.Equal(t, "/data/x", CleanPath(`"'/data/x'"`))
	require.Equal(t, "/data/x", CleanPath(`/data/x`))
}

func TestPromptExportDirs(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	missing := filepath.Join(a, "nope")
	input := strings.Join([]string{`"` + a + `"`, missing, "'" + b + "'\r", "", "ignored"}, "\n")
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader(input), out)

	dirs, err := p.ExportDirs()
	require.NoError(t, err)
	require.Equal(t, []string{a, b}, dirs)
	require.Contains(t, out.String(), "Directory not found: "+missing+"\n")
	require.Equal(t, 4, strings.Count(out.String(), "Enter a Label Studio YOLO export directory"))

	// The prompter continues reading after the blank line
	outDir, err := p.OutputDir()
	require.NoError(t, err)
	require.Equal(t, "ignored", outDir)
}

func TestPromptEOF(t *testing.T) {
	a := t.TempDir()
	p := NewPrompter(strings.NewReader(a), &bytes.Buffer{})
	dirs, err := p.ExportDirs()
	require.NoError(t, err)
	require.Equal(t, []string{a}, dirs)

	_, err = p.OutputDir()
	require.ErrorIs(t, err, ErrNoOutputDir)

	p = NewPrompter(strings.NewReader("\"\"\n"), &bytes.Buffer{})
	_, err = p.OutputDir()
	require.ErrorIs(t, err, ErrNoOutputDir)
}
