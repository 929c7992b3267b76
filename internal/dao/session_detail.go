package dao

import (
	"fmt"
	"time"
)

// SessionView is the canonical record shape shown on a session detail screen
// and fed into reports, regardless of where the session came from.
type SessionView struct {
	Id                 string         `json:"id"`
	PatientName        string         `json:"patientName"`
	PatientAge         int            `json:"patientAge"`
	PatientGender      string         `json:"patientGender"`
	Diagnosis          string         `json:"diagnosis"`
	Notes              string         `json:"notes"`
	Duration           string         `json:"duration"`
	PredominantEmotion string         `json:"predominantEmotion"`
	EmotionCounts      map[string]int `json:"emotionCounts"`
	AvgConfidence      float64        `json:"avgConfidence"`
	Date               time.Time      `json:"date"`
	Psychologist       string         `json:"psychologist"`
}

// SessionSource carries the optional, alternately-named fields a session
// record may arrive with: the API uses the english names, the local fallback
// store keeps the legacy spanish ones, and hand-built test fixtures may set
// either. Normalize resolves each field by a fixed priority: english name
// first, spanish name second, then the documented default.
type SessionSource struct {
	Id   *string
	Uuid *string

	PatientName    *string
	PacienteNombre *string
	PatientAge     *int
	PacienteEdad   *int
	PatientGender  *string
	PacienteGenero *string

	Diagnosis   *string
	Diagnostico *string
	Notes       *string
	Notas       *string

	Duration        *string
	Duracion        *string
	DurationSeconds *int

	PredominantEmotion  *string
	EmocionPredominante *string

	EmotionCounts       map[string]int
	EmocionesDetectadas map[string]int

	AvgConfidence     *float64
	ConfianzaPromedio *float64

	Date  *time.Time
	Fecha *time.Time

	Psychologist *string
	Psicologo    *string
}

func pickStr(values ...*string) (string, bool) {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v, true
		}
	}
	return "", false
}

func pickInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func pickFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// FormatDuration renders elapsed seconds as MM:SS. Negative input renders
// as 00:00.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (s *SessionSource) Normalize() *SessionView {
	view := &SessionView{}

	view.Id, _ = pickStr(s.Id, s.Uuid)
	view.PatientName, _ = pickStr(s.PatientName, s.PacienteNombre)
	if view.PatientName == "" {
		view.PatientName = "-"
	}
	view.PatientAge = pickInt(s.PatientAge, s.PacienteEdad)
	view.PatientGender, _ = pickStr(s.PatientGender, s.PacienteGenero)
	view.Diagnosis, _ = pickStr(s.Diagnosis, s.Diagnostico)
	view.Notes, _ = pickStr(s.Notes, s.Notas)

	if d, ok := pickStr(s.Duration, s.Duracion); ok {
		view.Duration = d
	} else if s.DurationSeconds != nil {
		view.Duration = FormatDuration(*s.DurationSeconds)
	} else {
		view.Duration = "00:00"
	}

	if e, ok := pickStr(s.PredominantEmotion, s.EmocionPredominante); ok {
		view.PredominantEmotion = e
	} else {
		view.PredominantEmotion = "-"
	}

	if s.EmotionCounts != nil {
		view.EmotionCounts = s.EmotionCounts
	} else if s.EmocionesDetectadas != nil {
		view.EmotionCounts = s.EmocionesDetectadas
	} else {
		view.EmotionCounts = map[string]int{}
	}

	view.AvgConfidence = pickFloat(s.AvgConfidence, s.ConfianzaPromedio)

	if s.Date != nil {
		view.Date = *s.Date
	} else if s.Fecha != nil {
		view.Date = *s.Fecha
	}

	view.Psychologist, _ = pickStr(s.Psychologist, s.Psicologo)
	return view
}
