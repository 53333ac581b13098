package viewer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/nn"
	"github.com/cyclopcam/yolotools/pkg/overlay"
	"github.com/cyclopcam/yolotools/pkg/perfstats"
)

// ErrCaptureFailed is returned by Run when the camera stops delivering frames
var ErrCaptureFailed = errors.New("Failed to capture image")

// Frame is one captured camera image.
// It can be drawn onto, handed to a detector, and saved.
type Frame interface {
	overlay.Canvas
	Image() nn.ImageCrop
	WriteJPEG(filename string) error
	Close()
}

// Source delivers camera frames.
// Read returns an error when no frame could be captured.
type Source interface {
	Read() (Frame, error)
	Close() error
}

// Display shows frames in a window, and polls the keyboard
type Display interface {
	Show(f Frame)
	// Wait up to delayMS for a key press. Returns -1 if no key was pressed.
	WaitKey(delayMS int) int
	Close() error
}

// FrameStats is reported to Hooks.OnFrame after every processed frame
type FrameStats struct {
	Objects       int           // Objects drawn (confidence above threshold)
	InferenceTime time.Duration // Time spent inside DetectObjects
	FrameTime     time.Duration // Time from capture to end of drawing
	AverageFPS    float64       // Smoothed frame rate shown on screen
}

// Optional callbacks, eg for metrics
type Hooks struct {
	OnFrame          func(s FrameStats)
	OnInferenceError func(err error)
}

type Config struct {
	Threshold      float32  // Objects with confidence above this are drawn (0.5)
	ScreenshotFile string   // Written when the user presses 's'
	Noun           string   // Kind of object being counted on screen, eg "Candy"
	FPSWindow      int      // Number of frames averaged for the FPS display (30)
	QuitKey        int
	ScreenshotKey  int
	Region         *nn.Rect // If not nil, only this part of the frame is given to the detector
}

func DefaultConfig() Config {
	return Config{
		Threshold:      nn.DefaultProbabilityThreshold,
		ScreenshotFile: "detection.jpg",
		Noun:           "Objects",
		FPSWindow:      perfstats.DefaultRateWindow,
		QuitKey:        'q',
		ScreenshotKey:  's',
	}
}

// Summary of a viewing session
type Summary struct {
	Frames        int
	Objects       int // Sum of objects drawn over all frames
	Screenshots   int
	AverageFPS    float64       // Smoothed FPS at the time the loop ended
	InferenceTime time.Duration // Mean time per DetectObjects call
}

// Viewer runs the capture -> detect -> draw -> display loop
type Viewer struct {
	Log      logs.Log
	Out      io.Writer // User-facing messages, such as screenshot confirmations
	Config   Config
	Source   Source
	Display  Display
	Detector nn.ObjectDetector
	Hooks    Hooks

	fps       *perfstats.RollingRate
	inference perfstats.TimeAccumulator
	summary   Summary
}

// A zero threshold is replaced by nn.DefaultProbabilityThreshold, so that the
// detector and the overlay agree on which objects are shown.
func NewViewer(log logs.Log, out io.Writer, config Config, source Source, display Display, detector nn.ObjectDetector) *Viewer {
	if config.Threshold <= 0 {
		config.Threshold = nn.DefaultProbabilityThreshold
	}
	return &Viewer{
		Log:      log,
		Out:      out,
		Config:   config,
		Source:   source,
		Display:  display,
		Detector: detector,
		fps:      perfstats.NewRollingRate(config.FPSWindow),
	}
}

// Run loops until the user presses the quit key, or capture fails.
// A capture failure returns ErrCaptureFailed, along with the summary up to that point.
func (v *Viewer) Run() (Summary, error) {
	for {
		quit, err := v.step()
		if err != nil {
			v.finish()
			return v.summary, err
		}
		if quit {
			break
		}
	}
	v.finish()
	return v.summary, nil
}

// Close the display, the source, and the detector, in that order.
// Returns the first error.
func (v *Viewer) Close() error {
	errDisplay := v.Display.Close()
	errSource := v.Source.Close()
	v.Detector.Close()
	if errDisplay != nil {
		return errDisplay
	}
	return errSource
}

func (v *Viewer) finish() {
	v.summary.AverageFPS = v.fps.Average()
	v.summary.InferenceTime = v.inference.Average()
}

// Process one frame. Returns true if the user asked to quit.
func (v *Viewer) step() (bool, error) {
	start := time.Now()

	frame, err := v.Source.Read()
	if err != nil {
		v.Log.Errorf("%v: %v", ErrCaptureFailed, err)
		return false, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	defer frame.Close()

	params := &nn.DetectionParams{
		ProbabilityThreshold: v.Config.Threshold,
	}
	img := v.detectionCrop(frame.Image())
	inferStart := time.Now()
	objects, err := v.Detector.DetectObjects(img, params)
	inferTime := time.Since(inferStart)
	v.inference.AddSample(inferTime)
	if err != nil {
		v.Log.Warnf("Object detection failed: %v", err)
		if v.Hooks.OnInferenceError != nil {
			v.Hooks.OnInferenceError(err)
		}
		objects = nil
	} else if !img.IsWhole() {
		// Boxes are relative to the crop
		shifted := make([]nn.ObjectDetection, len(objects))
		for i, obj := range objects {
			obj.Box.Offset(img.CropX, img.CropY)
			shifted[i] = obj
		}
		objects = shifted
	}

	count := overlay.DrawDetections(frame, objects, v.Detector.Config(), v.Config.Threshold)

	frameTime := time.Since(start)
	v.fps.AddInterval(frameTime)
	avgFPS := v.fps.Average()
	overlay.DrawStatus(frame, avgFPS, count, v.Config.Noun)

	v.summary.Frames++
	v.summary.Objects += count
	if v.Hooks.OnFrame != nil {
		v.Hooks.OnFrame(FrameStats{
			Objects:       count,
			InferenceTime: inferTime,
			FrameTime:     frameTime,
			AverageFPS:    avgFPS,
		})
	}

	v.Display.Show(frame)

	key := v.Display.WaitKey(1)
	if key < 0 {
		return false, nil
	}
	switch key & 0xff {
	case v.Config.QuitKey:
		return true, nil
	case v.Config.ScreenshotKey:
		if err := frame.WriteJPEG(v.Config.ScreenshotFile); err != nil {
			v.Log.Errorf("Failed to save screenshot %v: %v", v.Config.ScreenshotFile, err)
		} else {
			v.summary.Screenshots++
			fmt.Fprintf(v.Out, "Screenshot saved as %v\n", v.Config.ScreenshotFile)
		}
	}
	return false, nil
}

// Returns the part of the frame that the detector runs on.
// A region that lies entirely outside the frame is ignored.
func (v *Viewer) detectionCrop(img nn.ImageCrop) nn.ImageCrop {
	if v.Config.Region == nil {
		return img
	}
	r := v.Config.Region.Intersection(nn.Rect{Width: img.ImageWidth, Height: img.ImageHeight})
	if r.Area() == 0 {
		return img
	}
	return img.Crop(r.X, r.Y, r.X2(), r.Y2())
}
