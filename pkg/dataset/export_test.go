package dataset

import (
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/nn"
	"github.com/stretchr/testify/require"
)

func TestFormatLabelLine(t *testing.T) {
	obj := nn.ObjectDetection{Class: 2, Confidence: 0.9, Box: nn.FromCorners(100, 60, 300, 120)}
	require.Equal(t, "2 0.312500 0.375000 0.312500 0.250000", FormatLabelLine(obj, 640, 240))
}

func TestIsImageFile(t *testing.T) {
	require.True(t, IsImageFile("a.JPG"))
	require.True(t, IsImageFile("dir/b.png"))
	require.False(t, IsImageFile("labels.txt"))
	require.False(t, IsImageFile("noext"))
}

func TestExportWriterRoundTrip(t *testing.T) {
	src := t.TempDir()
	img := filepath.Join(src, "bar.jpg")
	writeTestFile(t, img, "jpeg")

	// Predictions from a model that knows "white" and "dark"
	exportDir := filepath.Join(t.TempDir(), "predicted")
	ew, err := NewExportWriter(exportDir, []string{"white", "dark"})
	require.NoError(t, err)
	require.NoError(t, ew.Add(img, 100, 100, []nn.ObjectDetection{
		{Class: 0, Confidence: 0.8, Box: nn.FromCorners(0, 0, 50, 50)},
		{Class: 1, Confidence: 0.7, Box: nn.FromCorners(50, 50, 100, 100)},
	}))
	require.Equal(t, "jpeg", readTestFile(t, filepath.Join(exportDir, "images", "bar.jpg")))

	// The export merges like any other
	out := filepath.Join(t.TempDir(), "combined")
	summary, err := NewMerger(logs.NewTestingLog(t)).Merge([]string{exportDir}, out, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "white"}, summary.Classes)
	require.Equal(t, "1 0.250000 0.250000 0.500000 0.500000\n0 0.750000 0.750000 0.500000 0.500000\n",
		readTestFile(t, filepath.Join(out, "labels", "bar.txt")))
}
