package nn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, filename, content string) {
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
}

func TestLoadClassFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "classes.txt")
	writeFile(t, fn, "dark\r\n  milk \n\nwhite\n")
	classes, err := LoadClassFile(fn)
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "milk", "white"}, classes)

	_, err = LoadClassFile(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDataYAMLClasses(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "list.yaml")
	writeFile(t, list, "nc: 2\nnames: [dark, milk]\n")
	classes, err := LoadDataYAMLClasses(list)
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "milk"}, classes)

	byIndex := filepath.Join(dir, "map.yaml")
	writeFile(t, byIndex, "names:\n  1: milk\n  0: dark\n  2: white\n")
	classes, err = LoadDataYAMLClasses(byIndex)
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "milk", "white"}, classes)

	gaps := filepath.Join(dir, "gaps.yaml")
	writeFile(t, gaps, "names:\n  0: dark\n  5: white\n")
	_, err = LoadDataYAMLClasses(gaps)
	require.Error(t, err)

	none := filepath.Join(dir, "none.yaml")
	writeFile(t, none, "path: /tmp\n")
	_, err = LoadDataYAMLClasses(none)
	require.Error(t, err)
}

func TestResolveModelConfig(t *testing.T) {
	// JSON config wins
	dir := t.TempDir()
	model := filepath.Join(dir, "my_model.onnx")
	writeFile(t, filepath.Join(dir, "my_model.json"), `{"architecture":"yolov8","width":320,"height":256,"classes":["a","b"]}`)
	writeFile(t, filepath.Join(dir, "classes.txt"), "x\ny\nz\n")
	config, err := ResolveModelConfig(model)
	require.NoError(t, err)
	require.Equal(t, 320, config.Width)
	require.Equal(t, 256, config.Height)
	require.Equal(t, []string{"a", "b"}, config.Classes)

	// data.yaml beats classes.txt
	dir = t.TempDir()
	model = filepath.Join(dir, "my_model.onnx")
	writeFile(t, filepath.Join(dir, "data.yaml"), "names: [dark, milk]\n")
	writeFile(t, filepath.Join(dir, "classes.txt"), "x\n")
	config, err = ResolveModelConfig(model)
	require.NoError(t, err)
	require.Equal(t, DefaultModelSize, config.Width)
	require.Equal(t, []string{"dark", "milk"}, config.Classes)

	// classes.txt alone
	dir = t.TempDir()
	model = filepath.Join(dir, "my_model.onnx")
	writeFile(t, filepath.Join(dir, "classes.txt"), "x\ny\n")
	config, err = ResolveModelConfig(model)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, config.Classes)
	require.Equal(t, "y", config.ClassName(1))
	require.Equal(t, "class 7", config.ClassName(7))

	// nothing
	_, err = ResolveModelConfig(filepath.Join(t.TempDir(), "my_model.onnx"))
	require.Error(t, err)
}

func TestDetectionParams(t *testing.T) {
	p := &DetectionParams{}
	prob, iou := p.Effective()
	require.Equal(t, float32(DefaultProbabilityThreshold), prob)
	require.Equal(t, float32(DefaultNmsIouThreshold), iou)

	p = &DetectionParams{ProbabilityThreshold: 0.25, NmsIouThreshold: 0.7}
	prob, iou = p.Effective()
	require.Equal(t, float32(0.25), prob)
	require.Equal(t, float32(0.7), iou)
}

func TestImageCrop(t *testing.T) {
	img := WholeImage(3, make([]byte, 10*8*3), 10, 8)
	require.True(t, img.IsWhole())
	require.Equal(t, 10, img.CropWidth)

	c := img.Crop(2, 2, 6, 8)
	require.False(t, c.IsWhole())
	require.Equal(t, 4, c.CropWidth)
	require.Equal(t, 6, c.CropHeight)

	require.Panics(t, func() { img.Crop(0, 0, 11, 8) })
}

func TestFilterByConfidence(t *testing.T) {
	objects := []ObjectDetection{
		{Class: 0, Confidence: 0.2},
		{Class: 1, Confidence: 0.5},
		{Class: 2, Confidence: 0.51},
		{Class: 3, Confidence: 0.99},
	}
	keep := FilterByConfidence(objects, 0.5)
	require.Len(t, keep, 2)
	require.Equal(t, 2, keep[0].Class)
	require.Equal(t, 3, keep[1].Class)
	require.Len(t, objects, 4)
}
