package viewer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/yolotools/pkg/nn"
)

// Settings for the detectcam program, as loaded from a JSON file.
// Command line flags override anything set here.
type Settings struct {
	Model       string   `json:"model"`       // Path to the ONNX model (my_model.onnx)
	Camera      string   `json:"camera"`      // Camera index, video file, or stream URL ("0")
	Threshold   float32  `json:"threshold"`   // Minimum confidence for drawing an object (0.5)
	Window      string   `json:"window"`      // Window title
	Screenshot  string   `json:"screenshot"`  // Screenshot filename
	Noun        string   `json:"noun"`        // Label of the on-screen count, eg "Candy"
	MetricsAddr string   `json:"metricsAddr"` // If not empty, serve Prometheus metrics here, eg ":9090"
	Region      *nn.Rect `json:"region"`      // Optional region of interest, eg {"x": 100, "y": 0, "width": 400, "height": 480}
}

func DefaultSettings() Settings {
	c := DefaultConfig()
	return Settings{
		Model:      "my_model.onnx",
		Camera:     "0",
		Threshold:  c.Threshold,
		Window:     "YOLO Detection",
		Screenshot: c.ScreenshotFile,
		Noun:       c.Noun,
	}
}

// Load settings from a JSON file. Fields missing from the file keep their defaults.
func LoadSettings(filename string) (*Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	if err := ValidateThreshold(s.Threshold); err != nil {
		return nil, fmt.Errorf("Invalid settings in %v: %w", filename, err)
	}
	if s.Region != nil && (s.Region.Width <= 0 || s.Region.Height <= 0) {
		return nil, fmt.Errorf("Invalid settings in %v: region must have a positive width and height", filename)
	}
	return &s, nil
}

// The loop configuration implied by these settings
func (s *Settings) ViewerConfig() Config {
	c := DefaultConfig()
	c.Threshold = s.Threshold
	c.Region = s.Region
	c.ScreenshotFile = s.Screenshot
	c.Noun = s.Noun
	return c
}

// The threshold must be in (0, 1). Zero is not allowed, because the detector treats it as "use the default".
func ValidateThreshold(threshold float32) error {
	if threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("threshold %v must be greater than 0 and less than 1", threshold)
	}
	return nil
}
