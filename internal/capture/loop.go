package capture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"emosense/internal/vision"
	"emosense/pkg/log"
)

// FrameSource yields encoded JPEG frames from a camera or file.
type FrameSource interface {
	Grab() ([]byte, error)
	Close() error
}

// Predictor classifies the emotions visible in one JPEG frame.
type Predictor interface {
	Predict(ctx context.Context, jpeg []byte) ([]vision.Prediction, error)
}

const defaultInterval = 500 * time.Millisecond

// Loop drives the periodic grab→predict→record cycle of a capture run.
// At most one predict request is in flight at any time: ticks that arrive
// while a request is outstanding skip the frame.
type Loop struct {
	source    FrameSource
	predictor Predictor
	agg       *Aggregator
	interval  time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	inFlight  atomic.Bool
	capturing atomic.Bool
	stopOnce  sync.Once
	errCount  atomic.Int64
	logger    *logrus.Entry
}

func NewLoop(parentCtx context.Context, source FrameSource, predictor Predictor, agg *Aggregator, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = defaultInterval
	}
	ctx, cancel := context.WithCancel(parentCtx)
	return &Loop{
		source:    source,
		predictor: predictor,
		agg:       agg,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		logger:    log.GetLogger(ctx),
	}
}

func (l *Loop) Start() {
	l.capturing.Store(true)
	l.agg.Start()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.logger.Info("capture loop started")
		l.run()
		l.logger.Info("capture loop stopped")
	}()
}

// Stop cancels the loop and waits for it to drain. Safe to call more
// than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.capturing.Store(false)
		l.cancel()
		l.wg.Wait()
	})
}

// ErrCount reports how many frames failed to grab or predict.
func (l *Loop) ErrCount() int64 {
	return l.errCount.Load()
}

func (l *Loop) run() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
		}

		if !l.inFlight.CompareAndSwap(false, true) {
			continue
		}

		frame, err := l.source.Grab()
		if err != nil {
			l.errCount.Add(1)
			l.logger.WithError(err).Error("grab frame failed")
			l.inFlight.Store(false)
			continue
		}

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.inFlight.Store(false)
			l.predictFrame(frame)
		}()
	}
}

func (l *Loop) predictFrame(frame []byte) {
	preds, err := l.predictor.Predict(l.ctx, frame)
	if err != nil {
		l.errCount.Add(1)
		l.logger.WithError(err).Error("predict frame failed")
		return
	}
	// results that land after Stop are discarded
	if !l.capturing.Load() {
		return
	}
	if strongest, ok := StrongestPrediction(preds); ok {
		l.agg.Record(strongest.Emotion, strongest.Confidence)
	}
}

// StrongestPrediction picks the highest-confidence prediction; the first
// one wins on equal confidence. ok is false for an empty list.
func StrongestPrediction(preds []vision.Prediction) (vision.Prediction, bool) {
	if len(preds) == 0 {
		return vision.Prediction{}, false
	}
	strongest := preds[0]
	for _, p := range preds[1:] {
		if p.Confidence > strongest.Confidence {
			strongest = p
		}
	}
	return strongest, true
}
