// Package webcam connects the viewer to a real camera and window, through OpenCV (gocv).
package webcam

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/yolotools/pkg/nn"
	"github.com/cyclopcam/yolotools/pkg/viewer"
	"gocv.io/x/gocv"
)

// JPEG quality of screenshots
const ScreenshotQuality = 95

// Camera is a viewer.Source backed by an OpenCV capture device
type Camera struct {
	capture *gocv.VideoCapture
}

// Open a camera by index (0 is the default camera), or by file/URL.
func OpenCamera(device string) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("Could not open webcam %v: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("Could not open webcam %v", device)
	}
	return &Camera{capture: capture}, nil
}

func (c *Camera) Read() (viewer.Frame, error) {
	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, errors.New("camera returned no frame")
	}
	return &Frame{mat: mat}, nil
}

func (c *Camera) Close() error {
	return c.capture.Close()
}

// Window is a viewer.Display backed by an OpenCV HighGUI window
type Window struct {
	window *gocv.Window
}

func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(f viewer.Frame) {
	frame, ok := f.(*Frame)
	if !ok {
		return
	}
	w.window.IMShow(frame.mat)
}

func (w *Window) WaitKey(delayMS int) int {
	return w.window.WaitKey(delayMS)
}

func (w *Window) Close() error {
	return w.window.Close()
}

// Frame is a BGR camera image that implements overlay.Canvas
type Frame struct {
	mat gocv.Mat
}

// Image returns a copy of the BGR pixels
func (f *Frame) Image() nn.ImageCrop {
	return nn.WholeImage(f.mat.Channels(), f.mat.ToBytes(), f.mat.Cols(), f.mat.Rows())
}

func (f *Frame) Rectangle(r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(&f.mat, r, c, thickness)
}

func (f *Frame) FillRectangle(r image.Rectangle, c color.RGBA) {
	// Negative thickness means filled (cv::FILLED)
	gocv.Rectangle(&f.mat, r, c, -1)
}

func (f *Frame) Text(text string, org image.Point, scale float64, c color.RGBA, thickness int) {
	gocv.PutText(&f.mat, text, org, gocv.FontHersheySimplex, scale, c, thickness)
}

func (f *Frame) TextSize(text string, scale float64, thickness int) (image.Point, int) {
	return gocv.GetTextSizeWithBaseline(text, gocv.FontHersheySimplex, scale, thickness)
}

// WriteJPEG saves the frame, including anything drawn onto it
func (f *Frame) WriteJPEG(filename string) error {
	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(f.mat, &rgb, gocv.ColorBGRToRGB)
	img := cimg.WrapImage(rgb.Cols(), rgb.Rows(), cimg.PixelFormatRGB, rgb.ToBytes())
	return img.WriteJPEG(filename, cimg.MakeCompressParams(cimg.Sampling420, ScreenshotQuality, 0), 0644)
}

func (f *Frame) Close() {
	f.mat.Close()
}

// LoadImage reads an image file from disk (any format that OpenCV can decode)
func LoadImage(filename string) (*Frame, error) {
	mat := gocv.IMRead(filename, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("Failed to read image %v", filename)
	}
	return &Frame{mat: mat}, nil
}

func (f *Frame) Width() int {
	return f.mat.Cols()
}

func (f *Frame) Height() int {
	return f.mat.Rows()
}
