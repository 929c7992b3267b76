package dao

import (
	"time"

	"emosense/internal/model"
)

type CreateSessionSpec struct {
	PatientId          int       `json:"patientId" binding:"required,min=1"`
	StartedAt          time.Time `json:"startedAt"`
	DurationSeconds    int       `json:"durationSeconds" binding:"omitempty,min=0"`
	PredominantEmotion string    `json:"predominantEmotion" binding:"max=32"`
	AvgConfidence      float64   `json:"avgConfidence" binding:"omitempty,min=0,max=1"`
	SampleCount        int       `json:"sampleCount" binding:"omitempty,min=0"`
	Notes              string    `json:"notes"`
}

func (s *CreateSessionSpec) ToModel(uuid string, psychologistId int) *model.Session {
	startedAt := s.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &model.Session{
		Uuid:               uuid,
		PatientId:          s.PatientId,
		PsychologistId:     psychologistId,
		StartedAt:          startedAt,
		DurationSeconds:    s.DurationSeconds,
		PredominantEmotion: s.PredominantEmotion,
		AvgConfidence:      s.AvgConfidence,
		SampleCount:        s.SampleCount,
		Notes:              s.Notes,
	}
}

type SessionSpec struct {
	Id                 int       `json:"id"`
	Uuid               string    `json:"uuid"`
	PatientId          int       `json:"patientId"`
	PsychologistId     int       `json:"psychologistId"`
	StartedAt          time.Time `json:"startedAt"`
	DurationSeconds    int       `json:"durationSeconds"`
	PredominantEmotion string    `json:"predominantEmotion"`
	AvgConfidence      float64   `json:"avgConfidence"`
	SampleCount        int       `json:"sampleCount"`
	Notes              string    `json:"notes"`
}

func (s *SessionSpec) FromSessionModel(m *model.Session) {
	s.Id = m.Id
	s.Uuid = m.Uuid
	s.PatientId = m.PatientId
	s.PsychologistId = m.PsychologistId
	s.StartedAt = m.StartedAt
	s.DurationSeconds = m.DurationSeconds
	s.PredominantEmotion = m.PredominantEmotion
	s.AvgConfidence = m.AvgConfidence
	s.SampleCount = m.SampleCount
	s.Notes = m.Notes
}

type AddEmotionSpec struct {
	Emotion    string    `json:"emotion" binding:"required,max=32"`
	Confidence float64   `json:"confidence" binding:"omitempty,min=0,max=1"`
	DetectedAt time.Time `json:"detectedAt"`
}

func (s *AddEmotionSpec) ToModel(sessionId int) *model.DetectedEmotion {
	detectedAt := s.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now()
	}
	return &model.DetectedEmotion{
		SessionId:  sessionId,
		Emotion:    s.Emotion,
		Confidence: s.Confidence,
		DetectedAt: detectedAt,
	}
}

type DetectedEmotionSpec struct {
	Id         int       `json:"id"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detectedAt"`
}

type ListSessionsRequest struct {
	PatientId int `form:"patientId" binding:"omitempty,min=1"`
	Offset    int `form:"offset" binding:"omitempty,min=0"`
	Limit     int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ListSessionsResponse struct {
	Total int64          `json:"total"`
	Items []*SessionSpec `json:"items"`
}

type SessionDetailResponse struct {
	SessionSpec
	Emotions []*DetectedEmotionSpec `json:"emotions"`
}

// EmotionSampleMessage is the NSQ payload published per recorded sample.
type EmotionSampleMessage struct {
	SessionUuid string    `json:"sessionUuid"`
	Emotion     string    `json:"emotion"`
	Confidence  float64   `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`
}
