package nnload

// Package nnload wraps up our 'nn' interface layer, and has concrete references to our
// neural network implementation (OpenCV DNN via gocv), so that you can just call one function
// to load a model, and not need to know about the implementation details.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/gocvnn"
	"github.com/cyclopcam/yolotools/pkg/nn"
)

// Default model location, relative to the working directory
const DefaultModelPath = "my_model.onnx"

var ErrModelNotFound = errors.New("Model path is invalid or model was not found")

// Returns nil if the model file exists
func CheckModelPath(modelPath string) error {
	st, err := os.Stat(modelPath)
	if errors.Is(err, os.ErrNotExist) || (err == nil && st.IsDir()) {
		return fmt.Errorf("%w: %v", ErrModelNotFound, modelPath)
	}
	return err
}

// LoadModel loads a neural network from disk.
// The class names and input size come from a JSON file next to the model
// (eg my_model.json), or from data.yaml / classes.txt in the same directory.
func LoadModel(logs logs.Log, modelPath string) (nn.ObjectDetector, error) {
	if err := CheckModelPath(modelPath); err != nil {
		return nil, err
	}

	config, err := nn.ResolveModelConfig(modelPath)
	if err != nil {
		return nil, err
	}

	logs.Infof("Loading model from %v...", modelPath)

	switch strings.ToLower(filepath.Ext(modelPath)) {
	case ".onnx":
		model, err := gocvnn.NewDetector(config, modelPath)
		if err != nil {
			return nil, err
		}
		logs.Infof("Model loaded successfully. Classes: %v", config.Classes)
		return model, nil
	}
	return nil, fmt.Errorf("Unrecognized NN model type %v (export the model to ONNX)", modelPath)
}
