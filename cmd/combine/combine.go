package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/dataset"
	"github.com/cyclopcam/yolotools/pkg/iox"
)

func main() {
	parser := argparse.NewParser("combine", "Combine several YOLO label exports into one dataset, with a unified class list")
	inputs := parser.StringList("i", "input", &argparse.Options{Help: "Export directory (repeat for each export). If omitted, you will be prompted."})
	output := parser.String("o", "output", &argparse.Options{Help: "Output directory. If omitted, you will be prompted.", Default: ""})
	dataYAML := parser.Flag("", "data-yaml", &argparse.Options{Help: "Also write an Ultralytics data.yaml", Default: false})
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

	prompter := dataset.NewPrompter(os.Stdin, os.Stdout)

	exportDirs := []string{}
	if len(*inputs) != 0 {
		for _, dir := range *inputs {
			dir = dataset.CleanPath(dir)
			if iox.IsDir(dir) {
				exportDirs = append(exportDirs, dir)
			} else {
				fmt.Printf("Directory not found: %v\n", dir)
			}
		}
	} else {
		exportDirs, err = prompter.ExportDirs()
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}

	if len(exportDirs) == 0 {
		fmt.Printf("No valid export directories provided.\n")
		return
	}

	outputDir := dataset.CleanPath(*output)
	if outputDir == "" {
		outputDir, err = prompter.OutputDir()
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}

	merger := dataset.NewMerger(logger)
	summary, err := merger.Merge(exportDirs, outputDir, dataset.Options{WriteDataYAML: *dataYAML})
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	summary.Print(os.Stdout)
}
