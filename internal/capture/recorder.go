package capture

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"emosense/internal/dao"
	"emosense/internal/store"
	"emosense/pkg/log"
	"emosense/pkg/str"
)

// SessionAPI is the slice of the serve API the recorder needs.
type SessionAPI interface {
	CreateSession(ctx context.Context, spec *dao.CreateSessionSpec) (*dao.SessionSpec, error)
	AddEmotion(ctx context.Context, sessionId int, spec *dao.AddEmotionSpec) error
}

// SaveRequest identifies whose session a finalized aggregate belongs to.
type SaveRequest struct {
	PatientId        int
	PsychologistId   int
	PatientName      string
	PatientAge       int
	PatientGender    string
	PsychologistName string
	Diagnosis        string
	Notes            string
}

type SaveResult struct {
	SessionId    int
	Uuid         string
	Fallback     bool
	AppendErrors int
}

// Recorder turns a finalized aggregate into a persisted session: through
// the API when it is reachable, into the local fallback store otherwise.
type Recorder struct {
	api      SessionAPI
	fallback store.SessionStore
	producer *nsq.Producer
	topic    string
	logger   *logrus.Entry
}

func NewRecorder(api SessionAPI, fallback store.SessionStore) *Recorder {
	return &Recorder{
		api:      api,
		fallback: fallback,
		logger:   log.GetLogger(context.Background()),
	}
}

// WithPublisher makes the recorder also publish each sample to an NSQ topic.
func (r *Recorder) WithPublisher(producer *nsq.Producer, topic string) *Recorder {
	r.producer = producer
	r.topic = topic
	return r
}

// Save persists one finalized capture run. A create failure degrades to the
// local fallback store and still counts as success for the caller; failures
// while appending individual samples are logged and counted, never rolled
// back.
func (r *Recorder) Save(ctx context.Context, req *SaveRequest, agg *Aggregate) (*SaveResult, error) {
	if req.PatientId <= 0 {
		return nil, fmt.Errorf("invalid patient id %d", req.PatientId)
	}
	if req.PsychologistId <= 0 {
		return nil, fmt.Errorf("invalid psychologist id %d", req.PsychologistId)
	}

	spec := &dao.CreateSessionSpec{
		PatientId:          req.PatientId,
		StartedAt:          agg.StartedAt,
		DurationSeconds:    agg.DurationSeconds,
		PredominantEmotion: agg.PredominantEmotion,
		AvgConfidence:      agg.AvgConfidence,
		SampleCount:        agg.SampleCount,
		Notes:              req.Notes,
	}

	session, err := r.api.CreateSession(ctx, spec)
	if err != nil {
		r.logger.WithError(err).Warn("create session failed, saving to local store")
		fallbackId := str.NewUUID()
		if saveErr := r.saveFallback(fallbackId, req, agg); saveErr != nil {
			return nil, fmt.Errorf("create session: %v, local fallback: %w", err, saveErr)
		}
		return &SaveResult{Uuid: fallbackId, Fallback: true}, nil
	}

	result := &SaveResult{SessionId: session.Id, Uuid: session.Uuid}
	for _, sample := range agg.Samples {
		emotionSpec := &dao.AddEmotionSpec{
			Emotion:    sample.Emotion,
			Confidence: sample.Confidence,
			DetectedAt: sample.Timestamp,
		}
		if err := r.api.AddEmotion(ctx, session.Id, emotionSpec); err != nil {
			result.AppendErrors++
			r.logger.WithError(err).Error("append emotion failed")
		}
		r.publishSample(session.Uuid, sample)
	}
	return result, nil
}

func (r *Recorder) saveFallback(id string, req *SaveRequest, agg *Aggregate) error {
	record := &store.SessionRecord{
		Id: id,
		Paciente: store.PatientBlock{
			Id:     req.PatientId,
			Nombre: req.PatientName,
			Edad:   req.PatientAge,
			Genero: req.PatientGender,
		},
		Diagnostico:         req.Diagnosis,
		Notas:               req.Notes,
		Duracion:            agg.Duration,
		EmocionPredominante: agg.PredominantEmotion,
		EmocionesDetectadas: agg.Counts,
		ConfianzaPromedio:   agg.AvgConfidence,
		Fecha:               agg.StartedAt,
		Psicologo:           req.PsychologistName,
	}
	return r.fallback.Save(record)
}

func (r *Recorder) publishSample(sessionUuid string, sample Sample) {
	if r.producer == nil {
		return
	}
	msg := &dao.EmotionSampleMessage{
		SessionUuid: sessionUuid,
		Emotion:     sample.Emotion,
		Confidence:  sample.Confidence,
		Timestamp:   sample.Timestamp,
	}
	data, _ := json.Marshal(msg)
	if err := r.producer.Publish(r.topic, data); err != nil {
		r.logger.WithError(err).Error("publish sample to NSQ failed")
	}
}
