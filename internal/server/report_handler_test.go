package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"emosense/internal/model"
	"emosense/internal/report"
)

func TestSessionViewFromModel(t *testing.T) {
	sess := &model.Session{
		Id:                 3,
		Uuid:               "abc123",
		PatientId:          7,
		PsychologistId:     1,
		StartedAt:          time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		DurationSeconds:    125,
		PredominantEmotion: "happy",
		AvgConfidence:      0.7,
		Notes:              "first evaluation",
	}
	counts := map[string]int{"happy": 3, "sad": 1}

	view := sessionViewFromModel(sess, counts, "Ana Ruiz")
	assert.Equal(t, "abc123", view.Id)
	assert.Equal(t, "Ana Ruiz", view.PatientName)
	assert.Equal(t, "02:05", view.Duration)
	assert.Equal(t, "happy", view.PredominantEmotion)
	assert.Equal(t, counts, view.EmotionCounts)

	// an all-zero statistics gather substitutes this view for the report
	data := report.FromView(view, report.TypeMonthly)
	assert.False(t, data.Empty())
	assert.Equal(t, int64(1), data.TotalSessions)
	assert.Equal(t, "Felicidad", data.PredominantEmotion)
}

func TestSessionViewFromModelDefaults(t *testing.T) {
	view := sessionViewFromModel(&model.Session{Uuid: "u1"}, map[string]int{}, "")

	assert.Equal(t, "-", view.PatientName)
	assert.Equal(t, "00:00", view.Duration)
	assert.Equal(t, "-", view.PredominantEmotion)
}
