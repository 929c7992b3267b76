package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/vision"
)

type fakeSource struct {
	grabs   atomic.Int64
	grabErr error
}

func (f *fakeSource) Grab() ([]byte, error) {
	f.grabs.Add(1)
	if f.grabErr != nil {
		return nil, f.grabErr
	}
	return []byte{0xff, 0xd8}, nil
}

func (f *fakeSource) Close() error { return nil }

type fakePredictor struct {
	preds      []vision.Prediction
	err        error
	delay      time.Duration
	calls      atomic.Int64
	concurrent atomic.Int64
	maxSeen    atomic.Int64
}

func (f *fakePredictor) Predict(ctx context.Context, jpeg []byte) ([]vision.Prediction, error) {
	f.calls.Add(1)
	cur := f.concurrent.Add(1)
	defer f.concurrent.Add(-1)
	for {
		max := f.maxSeen.Load()
		if cur <= max || f.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.preds, f.err
}

func TestLoopRecordsStrongestPrediction(t *testing.T) {
	agg := NewAggregator()
	predictor := &fakePredictor{preds: []vision.Prediction{
		{Emotion: "neutral", Confidence: 0.4},
		{Emotion: "happy", Confidence: 0.9},
	}}
	loop := NewLoop(context.Background(), &fakeSource{}, predictor, agg, 5*time.Millisecond)

	loop.Start()
	require.Eventually(t, func() bool { return agg.SampleCount() >= 3 },
		2*time.Second, 5*time.Millisecond)
	loop.Stop()

	aggregate := agg.Finalize()
	assert.Equal(t, "happy", aggregate.PredominantEmotion)
	assert.Equal(t, []string{"happy"}, keys(aggregate.Counts))
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestLoopSingleInFlight(t *testing.T) {
	agg := NewAggregator()
	predictor := &fakePredictor{
		preds: []vision.Prediction{{Emotion: "happy", Confidence: 0.8}},
		delay: 50 * time.Millisecond,
	}
	loop := NewLoop(context.Background(), &fakeSource{}, predictor, agg, time.Millisecond)

	loop.Start()
	time.Sleep(200 * time.Millisecond)
	loop.Stop()

	assert.Equal(t, int64(1), predictor.maxSeen.Load())
}

func TestLoopContinuesAfterPredictErrors(t *testing.T) {
	agg := NewAggregator()
	predictor := &fakePredictor{err: errors.New("inference failed")}
	loop := NewLoop(context.Background(), &fakeSource{}, predictor, agg, time.Millisecond)

	loop.Start()
	require.Eventually(t, func() bool { return loop.ErrCount() >= 3 },
		2*time.Second, time.Millisecond)
	loop.Stop()

	assert.Zero(t, agg.SampleCount())
	assert.GreaterOrEqual(t, predictor.calls.Load(), int64(3))
}

func TestLoopContinuesAfterGrabErrors(t *testing.T) {
	agg := NewAggregator()
	source := &fakeSource{grabErr: errors.New("camera gone")}
	predictor := &fakePredictor{}
	loop := NewLoop(context.Background(), source, predictor, agg, time.Millisecond)

	loop.Start()
	require.Eventually(t, func() bool { return source.grabs.Load() >= 3 },
		2*time.Second, time.Millisecond)
	loop.Stop()

	assert.Zero(t, predictor.calls.Load())
	assert.GreaterOrEqual(t, loop.ErrCount(), int64(3))
}

func TestLoopStopIdempotent(t *testing.T) {
	agg := NewAggregator()
	loop := NewLoop(context.Background(), &fakeSource{}, &fakePredictor{}, agg, time.Millisecond)

	loop.Start()
	loop.Stop()
	loop.Stop()
}

func TestLoopDiscardsLateResult(t *testing.T) {
	agg := NewAggregator()
	predictor := &fakePredictor{
		preds: []vision.Prediction{{Emotion: "happy", Confidence: 0.8}},
	}
	loop := NewLoop(context.Background(), &fakeSource{}, predictor, agg, time.Millisecond)

	// simulate a result that completes after Stop flipped the flag
	loop.capturing.Store(false)
	loop.predictFrame([]byte{0xff, 0xd8})
	assert.Zero(t, agg.SampleCount())
}

func TestStrongestPrediction(t *testing.T) {
	_, ok := StrongestPrediction(nil)
	assert.False(t, ok)

	p, ok := StrongestPrediction([]vision.Prediction{
		{Emotion: "sad", Confidence: 0.5},
		{Emotion: "happy", Confidence: 0.5},
		{Emotion: "fear", Confidence: 0.3},
	})
	require.True(t, ok)
	assert.Equal(t, "sad", p.Emotion)
}
