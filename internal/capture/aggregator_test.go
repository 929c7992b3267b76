package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorCountsMatchSamples(t *testing.T) {
	a := NewAggregator()
	emotions := []string{"happy", "neutral", "happy", "sad", "happy", "neutral"}
	for i, e := range emotions {
		a.Record(e, 0.5)

		agg := a.Finalize()
		total := 0
		for _, c := range agg.Counts {
			total += c
		}
		assert.Equal(t, i+1, total)
		assert.Equal(t, i+1, agg.SampleCount)
	}
}

func TestAggregatorPredominant(t *testing.T) {
	a := NewAggregator()
	for _, e := range []string{"happy", "happy", "happy", "neutral", "neutral"} {
		a.Record(e, 0.8)
	}
	agg := a.Finalize()
	assert.Equal(t, "happy", agg.PredominantEmotion)
	assert.Equal(t, 5, agg.SampleCount)
	assert.Equal(t, map[string]int{"happy": 3, "neutral": 2}, agg.Counts)
}

func TestAggregatorTieBreakFirstSeen(t *testing.T) {
	a := NewAggregator()
	for _, e := range []string{"sad", "happy", "happy", "sad"} {
		a.Record(e, 0.5)
	}
	agg := a.Finalize()
	assert.Equal(t, "sad", agg.PredominantEmotion)
}

func TestAggregatorTrueMeanConfidence(t *testing.T) {
	a := NewAggregator()
	a.Record("happy", 0.8)
	a.Record("happy", 0.8)
	a.Record("happy", 0.8)
	a.Record("neutral", 0.6)
	a.Record("neutral", 0.6)

	agg := a.Finalize()
	assert.InDelta(t, 0.72, agg.AvgConfidence, 1e-9)
}

func TestAggregatorEmpty(t *testing.T) {
	agg := NewAggregator().Finalize()
	assert.Equal(t, "-", agg.PredominantEmotion)
	assert.Zero(t, agg.AvgConfidence)
	assert.Equal(t, "00:00", agg.Duration)
	assert.Zero(t, agg.SampleCount)
	assert.Empty(t, agg.Counts)
}

func TestAggregatorDuration(t *testing.T) {
	a := NewAggregator()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return base }
	a.Start()

	a.now = func() time.Time { return base.Add(2*time.Minute + 5*time.Second) }
	agg := a.Finalize()
	assert.Equal(t, 125, agg.DurationSeconds)
	assert.Equal(t, "02:05", agg.Duration)
}

func TestAggregatorReset(t *testing.T) {
	a := NewAggregator()
	a.Start()
	a.Record("happy", 0.9)
	a.Reset()

	agg := a.Finalize()
	assert.Equal(t, "-", agg.PredominantEmotion)
	assert.Equal(t, "00:00", agg.Duration)
	assert.Zero(t, agg.SampleCount)
}

func TestAggregatorFinalizeIsSnapshot(t *testing.T) {
	a := NewAggregator()
	a.Record("happy", 0.9)
	agg := a.Finalize()
	require.Len(t, agg.Samples, 1)

	a.Record("sad", 0.2)
	assert.Len(t, agg.Samples, 1)
	assert.Equal(t, map[string]int{"happy": 1}, agg.Counts)
}
