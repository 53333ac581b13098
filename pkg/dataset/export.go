package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/yolotools/pkg/iox"
	"github.com/cyclopcam/yolotools/pkg/nn"
)

// Image file extensions that we treat as dataset images
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
}

func IsImageFile(filename string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FormatLabelLine produces a YOLO label line for an object in an image of the given size:
// "class cx cy w h", with coordinates normalized to [0,1].
func FormatLabelLine(obj nn.ObjectDetection, imageWidth, imageHeight int) string {
	w := float64(imageWidth)
	h := float64(imageHeight)
	cx := (float64(obj.Box.X) + float64(obj.Box.Width)/2) / w
	cy := (float64(obj.Box.Y) + float64(obj.Box.Height)/2) / h
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", obj.Class, cx, cy, float64(obj.Box.Width)/w, float64(obj.Box.Height)/h)
}

// ExportWriter writes model predictions as an export directory (classes.txt, images/, labels/),
// which can then be corrected in an annotation tool, or merged with other exports.
type ExportWriter struct {
	Dir     string
	Classes []string
}

func NewExportWriter(dir string, classes []string) (*ExportWriter, error) {
	for _, sub := range []string{ImagesDir, LabelsDir} {
		if err := mkdir(filepath.Join(dir, sub)); err != nil {
			return nil, err
		}
	}
	if err := iox.WriteLines(filepath.Join(dir, ClassesFilename), classes, false); err != nil {
		return nil, err
	}
	return &ExportWriter{
		Dir:     dir,
		Classes: classes,
	}, nil
}

// Add an image and its predictions. The image file is copied into images/.
func (e *ExportWriter) Add(imageFile string, imageWidth, imageHeight int, objects []nn.ObjectDetection) error {
	name := filepath.Base(imageFile)
	if err := iox.CopyFile(filepath.Join(e.Dir, ImagesDir, name), imageFile); err != nil {
		return err
	}
	lines := make([]string, 0, len(objects))
	for _, obj := range objects {
		lines = append(lines, FormatLabelLine(obj, imageWidth, imageHeight))
	}
	labelFile := strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
	return iox.WriteLines(filepath.Join(e.Dir, LabelsDir, labelFile), lines, false)
}
