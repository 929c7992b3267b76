package dao

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string     { return &s }
func intp(i int) *int           { return &i }
func floatp(f float64) *float64 { return &f }

func TestNormalizeEnglishFieldsWin(t *testing.T) {
	src := &SessionSource{
		Id:                  strp("42"),
		Uuid:                strp("abc"),
		PatientName:         strp("Ana Ruiz"),
		PacienteNombre:      strp("legacy name"),
		PredominantEmotion:  strp("happy"),
		EmocionPredominante: strp("sad"),
		AvgConfidence:       floatp(0.72),
		ConfianzaPromedio:   floatp(0.1),
	}
	v := src.Normalize()
	assert.Equal(t, "42", v.Id)
	assert.Equal(t, "Ana Ruiz", v.PatientName)
	assert.Equal(t, "happy", v.PredominantEmotion)
	assert.InDelta(t, 0.72, v.AvgConfidence, 1e-9)
}

func TestNormalizeSpanishFallback(t *testing.T) {
	fecha := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	src := &SessionSource{
		Uuid:                strp("local-1"),
		PacienteNombre:      strp("Luis Mora"),
		PacienteEdad:        intp(31),
		Duracion:            strp("04:30"),
		EmocionPredominante: strp("neutral"),
		EmocionesDetectadas: map[string]int{"neutral": 4, "happy": 1},
		ConfianzaPromedio:   floatp(0.61),
		Fecha:               &fecha,
		Psicologo:           strp("Dra. Vega"),
	}
	v := src.Normalize()
	assert.Equal(t, "local-1", v.Id)
	assert.Equal(t, "Luis Mora", v.PatientName)
	assert.Equal(t, 31, v.PatientAge)
	assert.Equal(t, "04:30", v.Duration)
	assert.Equal(t, "neutral", v.PredominantEmotion)
	assert.Equal(t, map[string]int{"neutral": 4, "happy": 1}, v.EmotionCounts)
	assert.Equal(t, fecha, v.Date)
	assert.Equal(t, "Dra. Vega", v.Psychologist)
}

func TestNormalizeDefaults(t *testing.T) {
	v := (&SessionSource{}).Normalize()
	assert.Equal(t, "-", v.PatientName)
	assert.Equal(t, "00:00", v.Duration)
	assert.Equal(t, "-", v.PredominantEmotion)
	assert.NotNil(t, v.EmotionCounts)
	assert.Empty(t, v.EmotionCounts)
	assert.Zero(t, v.AvgConfidence)
}

func TestNormalizeDurationFromSeconds(t *testing.T) {
	v := (&SessionSource{DurationSeconds: intp(125)}).Normalize()
	assert.Equal(t, "02:05", v.Duration)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "00:59", FormatDuration(59))
	assert.Equal(t, "01:00", FormatDuration(60))
	assert.Equal(t, "12:34", FormatDuration(12*60+34))
	assert.Equal(t, "00:00", FormatDuration(-5))
}
