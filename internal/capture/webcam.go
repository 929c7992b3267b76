package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// WebcamSource grabs JPEG-encoded frames from a local camera device.
type WebcamSource struct {
	video *gocv.VideoCapture
}

func NewWebcamSource(cameraId int) (*WebcamSource, error) {
	video, err := gocv.VideoCaptureDevice(cameraId)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %v", cameraId, err)
	}
	return &WebcamSource{video: video}, nil
}

func (w *WebcamSource) Grab() ([]byte, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	if ok := w.video.Read(&frame); !ok {
		return nil, fmt.Errorf("failed to read frame from camera")
	}
	if frame.Empty() {
		return nil, fmt.Errorf("camera returned an empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %v", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (w *WebcamSource) Close() error {
	return w.video.Close()
}
