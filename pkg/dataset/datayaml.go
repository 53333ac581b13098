package dataset

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DataYAMLFilename = "data.yaml"

// DataYAML is the Ultralytics dataset description
type DataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// Write data.yaml into the merged dataset, so that it can be passed straight to a trainer.
// Train and val both point at the merged images; splitting is left to the user.
func WriteDataYAML(outputDir string, classes []string) error {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	doc := DataYAML{
		Path:  abs,
		Train: "images",
		Val:   "images",
		NC:    len(classes),
		Names: classes,
	}
	b, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, DataYAMLFilename), b, 0644)
}
