//go:build gocv
// +build gocv

package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

type deviceSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// Open starts capturing from the given device index.
func Open(device int) (Source, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		return nil, fmt.Errorf("open camera %d: device not opened", device)
	}
	return &deviceSource{capture: capture, mat: gocv.NewMat()}, nil
}

// Read grabs one frame. OpenCV hands out BGR; ToImage converts it to RGBA.
func (s *deviceSource) Read() (image.Image, error) {
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, ErrNoFrame
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

func (s *deviceSource) Close() error {
	_ = s.mat.Close()
	return s.capture.Close()
}
