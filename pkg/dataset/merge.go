package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/iox"
)

const (
	ClassesFilename = "classes.txt"
	ImagesDir       = "images"
	LabelsDir       = "labels"
)

type Options struct {
	WriteDataYAML bool // Also write an Ultralytics data.yaml into the output directory
}

// Summary of a merge
type Summary struct {
	OutputDir       string
	Classes         []string
	ImagesCopied    int
	ImagesSkipped   int // Already present in the output
	LabelsCreated   int
	LabelsAppended  int // Label files extended by a later export with the same base name
	LabelsSkipped   int // Present in the output before the merge started
	LinesWritten    int
	LinesDropped    int // Malformed label lines
	ExportsWithData int // Exports that had both images/ and labels/
}

// Merger combines several export directories into one
type Merger struct {
	Log logs.Log

	// Label files that this merge created. Later exports append to these,
	// but label files that existed before the merge are never touched.
	created map[string]bool
}

func NewMerger(log logs.Log) *Merger {
	return &Merger{
		Log: log,
	}
}

// Merge the export directories into outputDir.
// Exports are processed in order, so for images with the same name, the first export wins.
// Missing classes.txt, images/ or labels/ in an export is not an error; that step is skipped.
func (m *Merger) Merge(exportDirs []string, outputDir string, opts Options) (*Summary, error) {
	m.created = map[string]bool{}

	for _, dir := range []string{outputDir, filepath.Join(outputDir, ImagesDir), filepath.Join(outputDir, LabelsDir)} {
		if err := mkdir(dir); err != nil {
			return nil, err
		}
	}

	// Gather the class list of every export. nil means no classes.txt.
	exportClasses := make([][]string, len(exportDirs))
	for i, dir := range exportDirs {
		classes, err := ReadClassList(filepath.Join(dir, ClassesFilename))
		if errors.Is(err, os.ErrNotExist) {
			m.Log.Infof("No %v in %v", ClassesFilename, dir)
			continue
		} else if err != nil {
			return nil, err
		}
		exportClasses[i] = classes
	}

	unified := UnifyClasses(exportClasses)
	mapping := NewClassMapping(unified)
	if err := iox.WriteLines(filepath.Join(outputDir, ClassesFilename), unified, false); err != nil {
		return nil, err
	}
	if opts.WriteDataYAML {
		if err := WriteDataYAML(outputDir, unified); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		OutputDir: outputDir,
		Classes:   unified,
	}

	for i, dir := range exportDirs {
		remap := BuildRemap(exportClasses[i], mapping)
		if err := m.mergeExport(dir, outputDir, remap, summary); err != nil {
			return summary, fmt.Errorf("Error merging %v: %w", dir, err)
		}
	}

	return summary, nil
}

func (m *Merger) mergeExport(exportDir, outputDir string, remap map[int]int, summary *Summary) error {
	imagesDir := filepath.Join(exportDir, ImagesDir)
	labelsDir := filepath.Join(exportDir, LabelsDir)
	if !iox.IsDir(imagesDir) || !iox.IsDir(labelsDir) {
		m.Log.Infof("Skipping files of %v, which needs both %v/ and %v/", exportDir, ImagesDir, LabelsDir)
		return nil
	}
	summary.ExportsWithData++

	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		imageFile := entry.Name()
		// Follow symlinks, but skip directories and other non-files
		st, err := os.Stat(filepath.Join(imagesDir, imageFile))
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		baseName := strings.TrimSuffix(imageFile, filepath.Ext(imageFile))
		labelFile := baseName + ".txt"

		dstImage := filepath.Join(outputDir, ImagesDir, imageFile)
		exists, err := iox.Exists(dstImage)
		if err != nil {
			return err
		}
		if exists {
			summary.ImagesSkipped++
		} else {
			if err := iox.CopyFile(dstImage, filepath.Join(imagesDir, imageFile)); err != nil {
				return err
			}
			summary.ImagesCopied++
		}

		if err := m.mergeLabel(filepath.Join(labelsDir, labelFile), filepath.Join(outputDir, LabelsDir, labelFile), remap, summary); err != nil {
			return err
		}
	}
	return nil
}

func (m *Merger) mergeLabel(srcLabel, dstLabel string, remap map[int]int, summary *Summary) error {
	lines, err := iox.ReadLines(srcLabel)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	appendToFile := false
	if m.created[dstLabel] {
		appendToFile = true
	} else {
		exists, err := iox.Exists(dstLabel)
		if err != nil {
			return err
		}
		if exists {
			summary.LabelsSkipped++
			return nil
		}
	}

	remapped, dropped := RemapLines(lines, remap)
	if err := iox.WriteLines(dstLabel, remapped, appendToFile); err != nil {
		return err
	}
	summary.LinesWritten += len(remapped)
	summary.LinesDropped += dropped
	if appendToFile {
		summary.LabelsAppended++
	} else {
		m.created[dstLabel] = true
		summary.LabelsCreated++
	}
	return nil
}

// Print the completion summary
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Combined YOLO exports into %v\n", s.OutputDir)
	fmt.Fprintf(w, "Final classes: %v\n", s.Classes)
	fmt.Fprintf(w, "Images: %v copied, %v already present. Labels: %v created, %v appended, %v already present. Dropped %v malformed label lines.\n",
		s.ImagesCopied, s.ImagesSkipped, s.LabelsCreated, s.LabelsAppended, s.LabelsSkipped, s.LinesDropped)
}

func mkdir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
