package capture

import (
	"sync"
	"time"

	"emosense/internal/dao"
)

type Sample struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// countEntry keeps per-emotion counts in first-seen order so that the
// predominant-emotion tie-break is deterministic.
type countEntry struct {
	emotion string
	count   int
}

// Aggregate is a frozen snapshot of one capture run.
type Aggregate struct {
	PredominantEmotion string
	AvgConfidence      float64
	DurationSeconds    int
	Duration           string
	SampleCount        int
	Counts             map[string]int
	Samples            []Sample
	StartedAt          time.Time
}

// Aggregator accumulates per-frame emotion samples during a capture run.
// Safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	samples   []Sample
	counts    []countEntry
	startedAt time.Time
	now       func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Start marks the beginning of the capture run. Calling Start again
// restarts the clock without touching recorded samples.
func (a *Aggregator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startedAt = a.now()
}

func (a *Aggregator) Record(emotion string, confidence float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.samples = append(a.samples, Sample{
		Emotion:    emotion,
		Confidence: confidence,
		Timestamp:  a.now(),
	})
	for i := range a.counts {
		if a.counts[i].emotion == emotion {
			a.counts[i].count++
			return
		}
	}
	a.counts = append(a.counts, countEntry{emotion: emotion, count: 1})
}

func (a *Aggregator) SampleCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples)
}

// Finalize computes the run's summary: the predominant emotion is the
// strict count maximum with first-seen winning ties, the confidence is the
// arithmetic mean of all recorded sample confidences, and the duration is
// the elapsed wall time since Start. An aggregator that never recorded a
// sample yields "-" and zero confidence; one never started yields "00:00".
func (a *Aggregator) Finalize() *Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()

	agg := &Aggregate{
		PredominantEmotion: "-",
		Duration:           "00:00",
		SampleCount:        len(a.samples),
		Counts:             make(map[string]int, len(a.counts)),
		Samples:            append([]Sample(nil), a.samples...),
		StartedAt:          a.startedAt,
	}

	best := -1
	for i, entry := range a.counts {
		agg.Counts[entry.emotion] = entry.count
		if best < 0 || entry.count > a.counts[best].count {
			best = i
		}
	}
	if best >= 0 {
		agg.PredominantEmotion = a.counts[best].emotion
	}

	if len(a.samples) > 0 {
		var sum float64
		for _, s := range a.samples {
			sum += s.Confidence
		}
		agg.AvgConfidence = sum / float64(len(a.samples))
	}

	if !a.startedAt.IsZero() {
		agg.DurationSeconds = int(a.now().Sub(a.startedAt).Seconds())
		if agg.DurationSeconds < 0 {
			agg.DurationSeconds = 0
		}
		agg.Duration = dao.FormatDuration(agg.DurationSeconds)
	}
	return agg
}

// Reset restores the aggregator to its initial state.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.samples = nil
	a.counts = nil
	a.startedAt = time.Time{}
}
