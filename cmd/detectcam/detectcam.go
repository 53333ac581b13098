package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/nnload"
	"github.com/cyclopcam/yolotools/pkg/viewer"
	"github.com/cyclopcam/yolotools/pkg/viewstats"
	"github.com/cyclopcam/yolotools/pkg/webcam"
)

func main() {
	parser := argparse.NewParser("detectcam", "Run an object detection model over a live webcam feed")
	configFile := parser.String("c", "config", &argparse.Options{Help: "JSON settings file", Default: ""})
	modelPath := parser.String("m", "model", &argparse.Options{Help: "Path to the ONNX model (default " + nnload.DefaultModelPath + ")", Default: ""})
	camera := parser.String("", "camera", &argparse.Options{Help: "Camera index, video file or stream URL (default 0)", Default: ""})
	threshold := parser.Float("t", "threshold", &argparse.Options{Help: "Minimum confidence of drawn objects, between 0 and 1 (default 0.5)", Default: 0.0})
	windowTitle := parser.String("", "window", &argparse.Options{Help: "Window title", Default: ""})
	screenshot := parser.String("", "screenshot", &argparse.Options{Help: "Filename of screenshots saved with 's'", Default: ""})
	noun := parser.String("", "noun", &argparse.Options{Help: "What is being counted, eg Candy", Default: ""})
	metricsAddr := parser.String("", "metrics", &argparse.Options{Help: "Serve Prometheus metrics on this address, eg :9090", Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	settings := viewer.DefaultSettings()
	if *configFile != "" {
		loaded, err := viewer.LoadSettings(*configFile)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		settings = *loaded
	}
	override(&settings.Model, *modelPath)
	override(&settings.Camera, *camera)
	override(&settings.Window, *windowTitle)
	override(&settings.Screenshot, *screenshot)
	override(&settings.Noun, *noun)
	override(&settings.MetricsAddr, *metricsAddr)
	// Zero means the flag was not given
	if *threshold != 0 {
		if err := viewer.ValidateThreshold(float32(*threshold)); err != nil {
			logger.Errorf("Invalid --threshold: %v", err)
			os.Exit(1)
		}
		settings.Threshold = float32(*threshold)
	}

	model, err := nnload.LoadModel(logger, settings.Model)
	if errors.Is(err, nnload.ErrModelNotFound) {
		logger.Errorf("Model path %v is invalid or model was not found.", settings.Model)
		os.Exit(1)
	} else if err != nil {
		logger.Errorf("Failed to load NN model '%v': %v", settings.Model, err)
		os.Exit(1)
	}

	logger.Infof("Initializing webcam...")
	cam, err := webcam.OpenCamera(settings.Camera)
	if err != nil {
		logger.Errorf("%v", err)
		model.Close()
		os.Exit(1)
	}

	window := webcam.NewWindow(settings.Window)

	fmt.Printf("Webcam initialized. Press 'q' to quit, 's' to save a screenshot.\n")

	v := viewer.NewViewer(logger, os.Stdout, settings.ViewerConfig(), cam, window, model)
	if settings.MetricsAddr != "" {
		metrics := viewstats.New()
		v.Hooks = metrics.Hooks()
		metrics.Serve(logger, settings.MetricsAddr)
	}

	summary, err := v.Run()
	if err != nil && !errors.Is(err, viewer.ErrCaptureFailed) {
		logger.Errorf("%v", err)
	}
	if err := v.Close(); err != nil {
		logger.Warnf("Error closing webcam: %v", err)
	}
	fmt.Printf("Average FPS: %.2f\n", summary.AverageFPS)
	logger.Infof("Processed %v frames, %v objects, mean inference time %v", summary.Frames, summary.Objects, summary.InferenceTime)
}

func override(setting *string, flag string) {
	if flag != "" {
		*setting = flag
	}
}
