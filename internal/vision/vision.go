package vision

import (
	"context"
	"errors"
	"fmt"

	"github.com/Trendyol/go-triton-client/base"
	tritonGrpc "github.com/Trendyol/go-triton-client/client/grpc"
	"gocv.io/x/gocv"

	"emosense/internal/config"
)

// EmotionClasses is the fixed class order of the model's output tensor.
var EmotionClasses = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

// faceStride is the per-face layout of the FACES tensor:
// 4 box coords + overall confidence + one probability per class.
const faceStride = 4 + 1 + 7

type Prediction struct {
	Emotion        string             `json:"emotion"`
	Confidence     float64            `json:"confidence"`
	AllPredictions map[string]float64 `json:"allPredictions"`
	Box            [4]int             `json:"box"`
}

type Classifier struct {
	tritonCli base.Client
	modelName string
	version   string
	threshold float32
}

func NewClassifier(conf config.TritonConfig) (*Classifier, error) {
	tritonCli, err := tritonGrpc.NewClient(
		conf.Addr,
		false, // verbose logging
		30,    // connection timeout in seconds
		30,    // network timeout in seconds
		false, // use ssl
		true,  // insecure connection
		nil,   // existing grpc connection
		nil,   // logger
	)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		tritonCli: tritonCli,
		modelName: conf.ModelName,
		version:   conf.Version,
		threshold: conf.Threshold,
	}, nil
}

func (c *Classifier) Ready(ctx context.Context) error {
	if isLive, err := c.tritonCli.IsServerLive(ctx, nil); err != nil {
		return err
	} else if !isLive {
		return errors.New("triton server is not live")
	}
	if isReady, err := c.tritonCli.IsServerReady(ctx, nil); err != nil {
		return err
	} else if !isReady {
		return errors.New("triton server is not ready")
	}
	if isReady, err := c.tritonCli.IsModelReady(ctx, c.modelName, c.version, nil); err != nil {
		return err
	} else if !isReady {
		return errors.New("triton model is not ready")
	}
	return nil
}

// Predict runs the emotion model over one decoded frame and returns one
// prediction per detected face, strongest class first within each face.
func (c *Classifier) Predict(ctx context.Context, frame *gocv.Mat) ([]Prediction, error) {
	frameBytes := frame.ToBytes()

	frameInput := tritonGrpc.NewInferInput("FRAME", "BYTES", []int64{int64(frame.Rows()), int64(frame.Cols()), 3}, nil)
	if err := frameInput.SetData(frameBytes, true); err != nil {
		return nil, fmt.Errorf("failed to set FRAME input data: %v", err)
	}
	frameInput.SetDatatype("UINT8")

	outputs := []base.InferOutput{
		tritonGrpc.NewInferOutput("FACES", map[string]any{"binary_data": false}),
	}

	response, err := c.tritonCli.Infer(ctx, c.modelName, c.version, []base.InferInput{frameInput}, outputs, nil)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %v", err)
	}

	faces, err := response.AsFloat32Slice("FACES")
	if err != nil {
		return nil, fmt.Errorf("failed to get face data: %v", err)
	}

	return parseFaces(faces, c.threshold), nil
}

// parseFaces decodes the flat FACES tensor, shape [N, faceStride], into
// predictions. Faces below the confidence threshold are skipped.
func parseFaces(faces []float32, threshold float32) []Prediction {
	var preds []Prediction
	for i := 0; i+faceStride <= len(faces); i += faceStride {
		confidence := faces[i+4]
		if confidence < threshold {
			continue
		}

		all := make(map[string]float64, len(EmotionClasses))
		best := 0
		for j, class := range EmotionClasses {
			p := float64(faces[i+5+j])
			all[class] = p
			if p > all[EmotionClasses[best]] {
				best = j
			}
		}

		preds = append(preds, Prediction{
			Emotion:        EmotionClasses[best],
			Confidence:     all[EmotionClasses[best]],
			AllPredictions: all,
			Box: [4]int{
				int(faces[i]), int(faces[i+1]),
				int(faces[i+2]), int(faces[i+3]),
			},
		})
	}
	return preds
}
