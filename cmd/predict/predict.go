package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/dataset"
	"github.com/cyclopcam/yolotools/pkg/nn"
	"github.com/cyclopcam/yolotools/pkg/nnload"
	"github.com/cyclopcam/yolotools/pkg/webcam"
)

func check(err error) {
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

// Run a model over a directory of images, and write the predictions as a YOLO export,
// so that they can be corrected in Label Studio, or fed straight into 'combine'.
func main() {
	parser := argparse.NewParser("predict", "Pre-label a directory of images")
	input := parser.String("i", "input", &argparse.Options{Help: "Directory of images", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Output export directory", Required: true})
	modelFile := parser.String("m", "model", &argparse.Options{Help: "Path to NN model file", Default: nnload.DefaultModelPath})
	threshold := parser.Float("t", "threshold", &argparse.Options{Help: "Minimum confidence of a prediction", Default: 0.5})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	model, err := nnload.LoadModel(logger, *modelFile)
	check(err)
	defer model.Close()

	entries, err := os.ReadDir(*input)
	check(err)
	images := []string{}
	for _, e := range entries {
		if !e.IsDir() && dataset.IsImageFile(e.Name()) {
			images = append(images, filepath.Join(*input, e.Name()))
		}
	}
	sort.Strings(images)

	export, err := dataset.NewExportWriter(*output, model.Config().Classes)
	check(err)

	params := nn.NewDetectionParams()
	params.ProbabilityThreshold = float32(*threshold)

	nObjects := 0
	for i, fn := range images {
		img, err := webcam.LoadImage(fn)
		if err != nil {
			logger.Warnf("%v", err)
			continue
		}
		objects, err := model.DetectObjects(img.Image(), params)
		if err == nil {
			objects = nn.FilterByConfidence(objects, params.ProbabilityThreshold)
			err = export.Add(fn, img.Width(), img.Height(), objects)
		}
		img.Close()
		check(err)
		nObjects += len(objects)
		fmt.Printf("\r%v/%v", i+1, len(images))
	}
	fmt.Printf("\nWrote %v objects in %v images to %v\n", nObjects, len(images), *output)
}
