package nn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Build a [1, features, anchors] tensor from per-anchor rows
func makeTensor(rows [][]float32) YOLOTensor {
	nFeatures := len(rows[0])
	nAnchors := len(rows)
	data := make([]float32, nFeatures*nAnchors)
	for a, row := range rows {
		for f, v := range row {
			data[f*nAnchors+a] = v
		}
	}
	return YOLOTensor{Data: data, NumFeatures: nFeatures, NumAnchors: nAnchors}
}

func TestDecodeYOLO(t *testing.T) {
	clip := Rect{Width: 1280, Height: 960}
	tensor := makeTensor([][]float32{
		// cx, cy, w, h, class0, class1
		{100, 100, 40, 20, 0.1, 0.9},
		{300, 200, 10, 10, 0.2, 0.1},
		{630, 630, 40, 40, 0.8, 0.1},
	})
	objects, err := DecodeYOLO(tensor, 2, 1.5, 0.25, clip)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	require.Equal(t, 1, objects[0].Class)
	require.InDelta(t, 0.9, objects[0].Confidence, 1e-6)
	require.Equal(t, FromCorners(160, 135, 240, 165), objects[0].Box)

	// Clipped to the frame
	require.Equal(t, 0, objects[1].Class)
	require.Equal(t, FromCorners(1220, 915, 1280, 960), objects[1].Box)
}

func TestDecodeYOLOAnchorMajor(t *testing.T) {
	tensor := YOLOTensor{
		Data: []float32{
			50, 50, 20, 20, 0.2, 0.7, 0.1,
			10, 10, 4, 4, 0.05, 0.05, 0.05,
		},
		NumFeatures: 7,
		NumAnchors:  2,
		AnchorMajor: true,
	}
	require.Equal(t, 3, tensor.NumClasses())
	objects, err := DecodeYOLO(tensor, 1, 1, 0.5, Rect{Width: 100, Height: 100})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, 1, objects[0].Class)
	require.Equal(t, FromCorners(40, 40, 60, 60), objects[0].Box)
}

func TestDecodeYOLOInvalid(t *testing.T) {
	_, err := DecodeYOLO(YOLOTensor{Data: make([]float32, 8), NumFeatures: 4, NumAnchors: 2}, 1, 1, 0.5, Rect{Width: 10, Height: 10})
	require.Error(t, err)
	_, err = DecodeYOLO(YOLOTensor{Data: make([]float32, 8), NumFeatures: 6, NumAnchors: 2}, 1, 1, 0.5, Rect{Width: 10, Height: 10})
	require.Error(t, err)
}
