package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/config"
)

func face(x1, y1, x2, y2, conf float32, probs ...float32) []float32 {
	out := []float32{x1, y1, x2, y2, conf}
	return append(out, probs...)
}

func TestParseFaces(t *testing.T) {
	data := face(10, 20, 110, 140, 0.9,
		0.05, 0.01, 0.02, 0.7, 0.1, 0.07, 0.05)

	preds := parseFaces(data, 0.5)
	require.Len(t, preds, 1)
	assert.Equal(t, "happy", preds[0].Emotion)
	assert.InDelta(t, 0.7, preds[0].Confidence, 1e-6)
	assert.Equal(t, [4]int{10, 20, 110, 140}, preds[0].Box)
	assert.Len(t, preds[0].AllPredictions, 7)
	assert.InDelta(t, 0.05, preds[0].AllPredictions["angry"], 1e-6)
}

func TestParseFacesThreshold(t *testing.T) {
	data := append(
		face(0, 0, 50, 50, 0.3, 0.9, 0, 0, 0, 0, 0, 0.1),
		face(60, 0, 120, 50, 0.8, 0, 0, 0, 0, 0.2, 0.6, 0.2)...,
	)

	preds := parseFaces(data, 0.5)
	require.Len(t, preds, 1)
	assert.Equal(t, "sad", preds[0].Emotion)
}

func TestParseFacesEmptyAndTruncated(t *testing.T) {
	assert.Empty(t, parseFaces(nil, 0.5))
	// trailing partial face is ignored
	data := face(0, 0, 10, 10, 0.9, 0, 0, 0, 0, 1, 0, 0)
	data = append(data, 1, 2, 3)
	preds := parseFaces(data, 0.5)
	require.Len(t, preds, 1)
	assert.Equal(t, "neutral", preds[0].Emotion)
}

func TestParseFacesFirstClassWinsEqualProbs(t *testing.T) {
	data := face(0, 0, 10, 10, 0.9, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2)
	preds := parseFaces(data, 0.5)
	require.Len(t, preds, 1)
	assert.Equal(t, "angry", preds[0].Emotion)
}

func TestReadyFailsWithoutServer(t *testing.T) {
	c, err := NewClassifier(config.TritonConfig{
		Addr:      "127.0.0.1:1",
		ModelName: "emotion",
		Version:   "1",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.Ready(ctx))
}
