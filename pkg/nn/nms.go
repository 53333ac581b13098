package nn

import (
	"sort"

	flatbush "github.com/bmharper/flatbush-go"
)

// NonMaxSuppression performs greedy per-class NMS.
// Objects are visited in order of decreasing confidence, and any lower-confidence object of the
// same class whose IoU with a kept object exceeds maxIoU is discarded.
// The returned objects are sorted by decreasing confidence.
func NonMaxSuppression(input []ObjectDetection, maxIoU float32) []ObjectDetection {
	if len(input) < 2 {
		return append([]ObjectDetection{}, input...)
	}

	order := make([]int, len(input))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return input[order[a]].Confidence > input[order[b]].Confidence
	})

	// Create spatial index to avoid O(N^2) comparisons
	fb := flatbush.NewFlatbush[int32]()
	fb.Reserve(len(input))
	for _, obj := range input {
		fb.Add(int32(obj.Box.X), int32(obj.Box.Y), int32(obj.Box.X2()), int32(obj.Box.Y2()))
	}
	fb.Finish()

	kept := make([]bool, len(input))
	deleted := make([]bool, len(input))
	result := make([]ObjectDetection, 0, len(input))

	for _, i := range order {
		if deleted[i] {
			continue
		}
		kept[i] = true
		in := input[i]
		result = append(result, in)
		for _, j := range fb.Search(int32(in.Box.X), int32(in.Box.Y), int32(in.Box.X2()), int32(in.Box.Y2())) {
			if j == i || kept[j] || deleted[j] {
				continue
			}
			if input[j].Class != in.Class {
				continue
			}
			if in.Box.IOU(input[j].Box) > maxIoU {
				deleted[j] = true
			}
		}
	}
	return result
}
