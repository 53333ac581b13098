package nn

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package nn is a Neural Network interface layer
// To load a model, use the nnload package.

const DefaultProbabilityThreshold = 0.5
const DefaultNmsIouThreshold = 0.45

// Input size used when a model has no JSON config next to it
const DefaultModelSize = 640

// NN object detection parameters
type DetectionParams struct {
	ProbabilityThreshold float32 // Value between 0 and 1. Lower values will find more objects. Zero value will use the default.
	NmsIouThreshold      float32 // Value between 0 and 1. Lower values will merge more objects together into one. Zero value will use the default.
}

// Create a default DetectionParams object
func NewDetectionParams() *DetectionParams {
	return &DetectionParams{
		ProbabilityThreshold: DefaultProbabilityThreshold,
		NmsIouThreshold:      DefaultNmsIouThreshold,
	}
}

// Returns the thresholds, with zero values replaced by the defaults
func (p *DetectionParams) Effective() (probability, nmsIou float32) {
	probability = p.ProbabilityThreshold
	if probability == 0 {
		probability = DefaultProbabilityThreshold
	}
	nmsIou = p.NmsIouThreshold
	if nmsIou == 0 {
		nmsIou = DefaultNmsIouThreshold
	}
	return
}

// ImageCrop is a crop of an image.
// Camera frames arrive as packed 8-bit BGR, so NChan is normally 3.
// To create an ImageCrop, start with WholeImage(), and then use Crop() to get a sub-crop.
type ImageCrop struct {
	NChan       int    // Number of channels (eg 3 for BGR)
	Pixels      []byte // The whole image
	ImageWidth  int    // The width of the original image, held in Pixels
	ImageHeight int    // The height of the original image, held in Pixels
	CropX       int    // Origin of crop X
	CropY       int    // Origin of crop Y
	CropWidth   int    // The width of this crop
	CropHeight  int    // The height of this crop
}

// Returns true if the crop covers the entire image
func (c ImageCrop) IsWhole() bool {
	return c.CropX == 0 && c.CropY == 0 && c.CropWidth == c.ImageWidth && c.CropHeight == c.ImageHeight
}

// Return a crop of the crop (new crop is relative to existing).
// If any parameter is out of bounds, we panic
func (c ImageCrop) Crop(x1, y1, x2, y2 int) ImageCrop {
	nc := ImageCrop{
		NChan:       c.NChan,
		Pixels:      c.Pixels,
		ImageWidth:  c.ImageWidth,
		ImageHeight: c.ImageHeight,
		CropX:       c.CropX + x1,
		CropY:       c.CropY + y1,
		CropWidth:   x2 - x1,
		CropHeight:  y2 - y1,
	}
	if nc.CropX < 0 || nc.CropY < 0 || nc.CropWidth < 0 || nc.CropHeight < 0 || nc.CropX+nc.CropWidth > c.ImageWidth || nc.CropY+nc.CropHeight > c.ImageHeight {
		panic("Crop out of bounds")
	}
	return nc
}

// Return a 'crop' of the entire image
func WholeImage(nchan int, pixels []byte, width, height int) ImageCrop {
	return ImageCrop{
		NChan:       nchan,
		Pixels:      pixels,
		ImageWidth:  width,
		ImageHeight: height,
		CropX:       0,
		CropY:       0,
		CropWidth:   width,
		CropHeight:  height,
	}
}

// ObjectDetector is given an image, and returns zero or more detected objects
type ObjectDetector interface {
	// Close closes the detector (you MUST call this when finished, because it's a C++ object underneath)
	Close()

	// DetectObjects returns a list of objects detected in the image.
	// Box coordinates are relative to the crop.
	// You can create a default DetectionParams with NewDetectionParams()
	DetectObjects(img ImageCrop, params *DetectionParams) ([]ObjectDetection, error)

	// Model Config.
	// Callers assume that ModelConfig will remain constant, so don't change it
	// once the detector has been created.
	Config() *ModelConfig
}

// ModelConfig is saved in a JSON file along with the weights of the NN model
type ModelConfig struct {
	Architecture string   `json:"architecture"` // eg "yolov8"
	Width        int      `json:"width"`        // eg 640
	Height       int      `json:"height"`       // eg 640
	Classes      []string `json:"classes"`      // eg ["dark", "milk", "white"]
}

// Returns the class name, or a placeholder if the index is outside of the class list
func (c *ModelConfig) ClassName(idx int) string {
	if idx >= 0 && idx < len(c.Classes) {
		return c.Classes[idx]
	}
	return fmt.Sprintf("class %v", idx)
}

// Load model config from a JSON file
func LoadModelConfig(filename string) (*ModelConfig, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config := &ModelConfig{}
	err = json.Unmarshal(b, config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Find the config for a model file.
// For "models/my_model.onnx", we try, in order:
// models/my_model.json   full ModelConfig
// models/data.yaml       Ultralytics dataset file, for the class names
// models/classes.txt     one class name per line
// When only class names are found, the input size defaults to DefaultModelSize.
func ResolveModelConfig(modelPath string) (*ModelConfig, error) {
	ext := filepath.Ext(modelPath)
	base := strings.TrimSuffix(modelPath, ext)
	dir := filepath.Dir(modelPath)

	if config, err := LoadModelConfig(base + ".json"); err == nil {
		if config.Width == 0 {
			config.Width = DefaultModelSize
		}
		if config.Height == 0 {
			config.Height = DefaultModelSize
		}
		return config, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("Error loading model config %v: %w", base+".json", err)
	}

	config := &ModelConfig{
		Architecture: "yolov8",
		Width:        DefaultModelSize,
		Height:       DefaultModelSize,
	}

	classes, err := LoadDataYAMLClasses(filepath.Join(dir, "data.yaml"))
	if err == nil {
		config.Classes = classes
		return config, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	classes, err = LoadClassFile(filepath.Join(dir, "classes.txt"))
	if err == nil {
		config.Classes = classes
		return config, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return nil, fmt.Errorf("No class names found for model %v (expected %v, data.yaml or classes.txt)", modelPath, filepath.Base(base)+".json")
}

// Load a text file with class names on each line
func LoadClassFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	classes := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			classes = append(classes, line)
		}
	}
	return classes, scanner.Err()
}

// Load the class names from an Ultralytics dataset file.
// 'names' may be a list, or a map from class index to name.
func LoadDataYAMLClasses(filename string) ([]string, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Names yaml.Node `yaml:"names"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("Error parsing %v: %w", filename, err)
	}
	switch doc.Names.Kind {
	case yaml.SequenceNode:
		names := []string{}
		if err := doc.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("Error parsing names in %v: %w", filename, err)
		}
		return names, nil
	case yaml.MappingNode:
		byIndex := map[int]string{}
		if err := doc.Names.Decode(&byIndex); err != nil {
			return nil, fmt.Errorf("Error parsing names in %v: %w", filename, err)
		}
		names := make([]string, len(byIndex))
		for i, name := range byIndex {
			if i < 0 || i >= len(names) {
				return nil, fmt.Errorf("Class indices in %v are not contiguous from 0", filename)
			}
			names[i] = name
		}
		return names, nil
	}
	return nil, fmt.Errorf("No 'names' list in %v", filename)
}
