package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gocv.io/x/gocv"

	"emosense/internal/vision"
)

type PredictRequest struct {
	// Image is a base64 data URL or a bare base64 string.
	Image string `json:"image" binding:"required"`
}

type PredictResponse struct {
	Predictions []vision.Prediction `json:"predictions"`
}

func decodeImagePayload(payload string) (gocv.Mat, error) {
	b64 := payload
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		b64 = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("invalid base64 image: %v", err)
	}
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image failed: %v", err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("decode image failed: empty frame")
	}
	return img, nil
}

// handlePredict classifies the emotions visible in one frame
// @Summary Predict emotions in a frame
// @Tags predict
// @Accept json
// @Produce json
// @Param req body PredictRequest true "base64-encoded frame"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse "bad image payload"
// @Failure 500 {object} ErrorResponse "inference error"
// @Router /api/v1/predict [post]
func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	img, err := decodeImagePayload(req.Image)
	if err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	defer img.Close()

	preds, err := s.classifier.Predict(c.Request.Context(), &img)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if preds == nil {
		preds = []vision.Prediction{}
	}
	c.JSON(http.StatusOK, PredictResponse{Predictions: preds})
}
