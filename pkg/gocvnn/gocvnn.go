package gocvnn

// package gocvnn runs ONNX object detection models (YOLOv8 / YOLO11 exports) through the OpenCV DNN module.

import (
	"errors"
	"fmt"
	"image"

	"github.com/cyclopcam/yolotools/pkg/nn"
	"gocv.io/x/gocv"
)

type Detector struct {
	net    gocv.Net
	config nn.ModelConfig
}

func NewDetector(config *nn.ModelConfig, onnxFile string) (*Detector, error) {
	net := gocv.ReadNetFromONNX(onnxFile)
	if net.Empty() {
		return nil, fmt.Errorf("Failed to create NN detector (%v, '%v')", config.Architecture, onnxFile)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	return &Detector{
		net:    net,
		config: *config,
	}, nil
}

func (d *Detector) Close() {
	d.net.Close()
}

func (d *Detector) DetectObjects(img nn.ImageCrop, params *nn.DetectionParams) ([]nn.ObjectDetection, error) {
	if img.NChan != 3 {
		return nil, fmt.Errorf("Expected a 3 channel BGR image, but got %v channels", img.NChan)
	}
	whole, err := gocv.NewMatFromBytes(img.ImageHeight, img.ImageWidth, gocv.MatTypeCV8UC3, img.Pixels)
	if err != nil {
		return nil, err
	}
	defer whole.Close()

	src := whole
	if !img.IsWhole() {
		src = whole.Region(image.Rect(img.CropX, img.CropY, img.CropX+img.CropWidth, img.CropY+img.CropHeight))
		defer src.Close()
	}

	// The blob is stretched to the model size, and boxes are scaled back by the same factors.
	blob := gocv.BlobFromImage(src, 1.0/255.0, image.Pt(d.config.Width, d.config.Height), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	tensor, err := d.tensorFromOutput(output)
	if err != nil {
		return nil, err
	}

	probThreshold, nmsThreshold := params.Effective()
	scaleX := float32(img.CropWidth) / float32(d.config.Width)
	scaleY := float32(img.CropHeight) / float32(d.config.Height)
	clip := nn.Rect{Width: img.CropWidth, Height: img.CropHeight}

	objects, err := nn.DecodeYOLO(tensor, scaleX, scaleY, probThreshold, clip)
	if err != nil {
		return nil, err
	}
	return nn.NonMaxSuppression(objects, nmsThreshold), nil
}

// The output is [1, 4+nc, anchors], but some exporters transpose it to [1, anchors, 4+nc]
func (d *Detector) tensorFromOutput(output gocv.Mat) (nn.YOLOTensor, error) {
	dims := output.Size()
	if len(dims) != 3 || dims[0] != 1 {
		return nn.YOLOTensor{}, fmt.Errorf("Unexpected NN output shape %v", dims)
	}
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nn.YOLOTensor{}, err
	}
	if len(data) == 0 {
		return nn.YOLOTensor{}, errors.New("Empty NN output")
	}
	// Copy out of the Mat, which is closed by our caller
	values := make([]float32, len(data))
	copy(values, data)

	tensor := nn.YOLOTensor{
		Data:        values,
		NumFeatures: dims[1],
		NumAnchors:  dims[2],
	}
	if dims[1] > dims[2] {
		tensor.NumFeatures = dims[2]
		tensor.NumAnchors = dims[1]
		tensor.AnchorMajor = true
	}
	if len(d.config.Classes) != 0 && tensor.NumClasses() != len(d.config.Classes) {
		return nn.YOLOTensor{}, fmt.Errorf("Model outputs %v classes, but config lists %v", tensor.NumClasses(), len(d.config.Classes))
	}
	return tensor, nil
}

func (d *Detector) Config() *nn.ModelConfig {
	return &d.config
}
