package nn

import (
	"fmt"

	"github.com/chewxy/math32"
)

// YOLOTensor is the raw output of a YOLOv8/YOLO11 style detection head.
// Each anchor has NumFeatures values: cx, cy, w, h (in model input pixels), followed by one score per class.
type YOLOTensor struct {
	Data        []float32
	NumFeatures int  // 4 + number of classes (eg 84 for COCO)
	NumAnchors  int  // eg 8400 for a 640x640 input
	AnchorMajor bool // Layout is [1, anchors, features] instead of the usual [1, features, anchors]
}

func (t *YOLOTensor) at(feature, anchor int) float32 {
	if t.AnchorMajor {
		return t.Data[anchor*t.NumFeatures+feature]
	}
	return t.Data[feature*t.NumAnchors+anchor]
}

func (t *YOLOTensor) NumClasses() int {
	return t.NumFeatures - 4
}

// DecodeYOLO turns the raw tensor into detections in frame coordinates.
// scaleX and scaleY map model input pixels to frame pixels.
// Anchors whose best class score is below minConfidence are discarded, and
// boxes are clipped to 'clip'. No NMS is performed here.
func DecodeYOLO(t YOLOTensor, scaleX, scaleY, minConfidence float32, clip Rect) ([]ObjectDetection, error) {
	if t.NumFeatures <= 4 {
		return nil, fmt.Errorf("Invalid YOLO output: %v features per anchor", t.NumFeatures)
	}
	if len(t.Data) < t.NumFeatures*t.NumAnchors {
		return nil, fmt.Errorf("YOLO output too small: %v values for %v x %v", len(t.Data), t.NumFeatures, t.NumAnchors)
	}

	nClasses := t.NumClasses()
	objects := []ObjectDetection{}

	for i := 0; i < t.NumAnchors; i++ {
		bestClass := 0
		bestScore := t.at(4, i)
		for c := 1; c < nClasses; c++ {
			if s := t.at(4+c, i); s > bestScore {
				bestScore = s
				bestClass = c
			}
		}
		if bestScore < minConfidence {
			continue
		}

		cx := t.at(0, i) * scaleX
		cy := t.at(1, i) * scaleY
		w := t.at(2, i) * scaleX
		h := t.at(3, i) * scaleY

		box := FromCorners(
			int(math32.Round(cx-w/2)),
			int(math32.Round(cy-h/2)),
			int(math32.Round(cx+w/2)),
			int(math32.Round(cy+h/2)),
		).Intersection(clip)
		if box.Area() == 0 {
			continue
		}

		objects = append(objects, ObjectDetection{
			Class:      bestClass,
			Confidence: bestScore,
			Box:        box,
		})
	}
	return objects, nil
}
