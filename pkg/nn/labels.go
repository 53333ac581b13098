package nn

// ObjectDetection is an object that a neural network has found in an image
type ObjectDetection struct {
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
	Box        Rect    `json:"box"`
}

// Returns the objects whose confidence is strictly greater than threshold.
// The input slice is not modified.
func FilterByConfidence(objects []ObjectDetection, threshold float32) []ObjectDetection {
	keep := make([]ObjectDetection, 0, len(objects))
	for _, obj := range objects {
		if obj.Confidence > threshold {
			keep = append(keep, obj)
		}
	}
	return keep
}
