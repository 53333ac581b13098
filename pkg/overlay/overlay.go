// Package overlay draws detection results onto a frame.
//
// Drawing goes through the Canvas interface, so the same layout code renders onto an
// OpenCV window image (see the webcam package) or onto a recording canvas in tests.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cyclopcam/yolotools/pkg/nn"
)

// Canvas is a drawable image.
// Text metrics and rendering use a single sans-serif font (Hershey simplex in OpenCV terms).
type Canvas interface {
	// Rectangle outline with the given line thickness
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
	// Solid rectangle
	FillRectangle(r image.Rectangle, c color.RGBA)
	// Text with its baseline-left corner at org
	Text(text string, org image.Point, scale float64, c color.RGBA, thickness int)
	// Size of the text, and the baseline offset below it
	TextSize(text string, scale float64, thickness int) (size image.Point, baseline int)
}

// Palette holds the box colors, chosen by class index mod 10
var Palette = [10]color.RGBA{
	{R: 87, G: 120, B: 164, A: 255},
	{R: 228, G: 148, B: 68, A: 255},
	{R: 209, G: 97, B: 93, A: 255},
	{R: 133, G: 182, B: 178, A: 255},
	{R: 106, G: 159, B: 88, A: 255},
	{R: 231, G: 202, B: 96, A: 255},
	{R: 168, G: 124, B: 159, A: 255},
	{R: 241, G: 162, B: 169, A: 255},
	{R: 150, G: 118, B: 98, A: 255},
	{R: 184, G: 176, B: 172, A: 255},
}

var (
	LabelTextColor  = color.RGBA{A: 255}
	StatusTextColor = color.RGBA{R: 255, G: 255, A: 255}
)

const (
	BoxThickness     = 2
	LabelScale       = 0.5
	LabelThickness   = 1
	StatusScale      = 0.7
	StatusThickness  = 2
	labelPadding     = 10 // space reserved above a box for its label
	labelTextDescent = 7  // distance from the label baseline to the bottom of the label area
)

func ColorForClass(class int) color.RGBA {
	i := class % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// Label text such as "milk: 87%"
func LabelText(className string, confidence float32) string {
	return fmt.Sprintf("%v: %d%%", className, int(confidence*100))
}

// LabelLayout is the position of a label drawn above a box
type LabelLayout struct {
	Background image.Rectangle
	TextOrigin image.Point
}

// Place a label of the given text size above the box at (xmin, ymin).
// The label is pushed down so that it never goes off the top of the image.
func PlaceLabel(xmin, ymin int, textSize image.Point, baseline int) LabelLayout {
	labelYMin := max(ymin, textSize.Y+labelPadding)
	return LabelLayout{
		Background: image.Rect(xmin, labelYMin-textSize.Y-labelPadding, xmin+textSize.X, labelYMin+baseline-labelPadding),
		TextOrigin: image.Pt(xmin, labelYMin-labelTextDescent),
	}
}

// Draw one box and its label
func DrawDetection(c Canvas, obj nn.ObjectDetection, className string) {
	col := ColorForClass(obj.Class)
	box := image.Rect(obj.Box.X, obj.Box.Y, obj.Box.X2(), obj.Box.Y2())
	c.Rectangle(box, col, BoxThickness)

	label := LabelText(className, obj.Confidence)
	size, baseline := c.TextSize(label, LabelScale, LabelThickness)
	layout := PlaceLabel(obj.Box.X, obj.Box.Y, size, baseline)
	c.FillRectangle(layout.Background, col)
	c.Text(label, layout.TextOrigin, LabelScale, LabelTextColor, LabelThickness)
}

// Draw every object whose confidence is strictly above threshold, and return how many were drawn.
func DrawDetections(c Canvas, objects []nn.ObjectDetection, config *nn.ModelConfig, threshold float32) int {
	n := 0
	for _, obj := range objects {
		if obj.Confidence > threshold {
			DrawDetection(c, obj, config.ClassName(obj.Class))
			n++
		}
	}
	return n
}

// Draw the smoothed frame rate and the object count in the top-left corner.
// noun names the kind of object, eg "Candy" gives "Candy detected: 3".
func DrawStatus(c Canvas, fps float64, count int, noun string) {
	c.Text(fmt.Sprintf("FPS: %.2f", fps), image.Pt(10, 20), StatusScale, StatusTextColor, StatusThickness)
	c.Text(fmt.Sprintf("%v detected: %v", noun, count), image.Pt(10, 50), StatusScale, StatusTextColor, StatusThickness)
}
