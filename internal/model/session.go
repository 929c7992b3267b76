package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Session struct {
	Id                 int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Uuid               string    `json:"uuid" gorm:"type:varchar(64);uniqueIndex;not null"`
	PatientId          int       `json:"patientId" gorm:"index;not null"`
	PsychologistId     int       `json:"psychologistId" gorm:"index;not null"`
	StartedAt          time.Time `json:"startedAt"`
	DurationSeconds    int       `json:"durationSeconds"`
	PredominantEmotion string    `json:"predominantEmotion" gorm:"type:varchar(32)"`
	AvgConfidence      float64   `json:"avgConfidence"`
	SampleCount        int       `json:"sampleCount"`
	Notes              string    `json:"notes" gorm:"type:text"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (Session) TableName() string {
	return "sessions"
}

type DetectedEmotion struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionId  int       `json:"sessionId" gorm:"index;not null"`
	Emotion    string    `json:"emotion" gorm:"type:varchar(32);not null"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detectedAt"`
}

func (DetectedEmotion) TableName() string {
	return "detected_emotions"
}

func CreateSession(s *Session) error {
	return DB.Create(s).Error
}

func GetSessionById(id int) (*Session, error) {
	var s Session
	if err := DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func GetSessionByUuid(uuid string) (*Session, error) {
	var s Session
	if err := DB.Where("uuid = ?", uuid).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func ListSessions(psychologistId, patientId, offset, limit int) ([]*Session, int64, error) {
	var sessions []*Session
	var total int64
	query := DB.Model(&Session{}).Where("psychologist_id = ?", psychologistId)
	if patientId > 0 {
		query = query.Where("patient_id = ?", patientId)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func ListSessionsByPsychologist(psychologistId int) ([]*Session, error) {
	var sessions []*Session
	err := DB.Where("psychologist_id = ?", psychologistId).
		Order("started_at desc").Find(&sessions).Error
	return sessions, err
}

func DeleteSession(id int) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&DetectedEmotion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Session{}, id).Error
	})
}

func AddDetectedEmotion(e *DetectedEmotion) error {
	return DB.Create(e).Error
}

func ListEmotionsBySession(sessionId int) ([]*DetectedEmotion, error) {
	var emotions []*DetectedEmotion
	err := DB.Where("session_id = ?", sessionId).Order("detected_at asc").Find(&emotions).Error
	return emotions, err
}
