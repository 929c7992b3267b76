package model

import "time"

type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int64  `json:"count"`
}

// MonthlyCount holds the session count for one calendar month (1-12).
type MonthlyCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

func CountSessionsByPsychologist(psychologistId int) (int64, error) {
	var n int64
	err := DB.Model(&Session{}).Where("psychologist_id = ?", psychologistId).Count(&n).Error
	return n, err
}

func CountPatientsByPsychologist(psychologistId int) (int64, error) {
	var n int64
	err := DB.Model(&Patient{}).Where("psychologist_id = ?", psychologistId).Count(&n).Error
	return n, err
}

func CountSessionsToday(psychologistId int) (int64, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var n int64
	err := DB.Model(&Session{}).
		Where("psychologist_id = ? AND started_at >= ?", psychologistId, dayStart).
		Count(&n).Error
	return n, err
}

func CountPatientsNewThisMonth(psychologistId int) (int64, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var n int64
	err := DB.Model(&Patient{}).
		Where("psychologist_id = ? AND created_at >= ?", psychologistId, monthStart).
		Count(&n).Error
	return n, err
}

func AverageSessionConfidence(psychologistId int) (float64, error) {
	var avg *float64
	err := DB.Model(&Session{}).
		Where("psychologist_id = ?", psychologistId).
		Select("AVG(avg_confidence)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// PredominantEmotionForPsychologist returns the most frequent session-level
// predominant emotion, or "" when the psychologist has no sessions.
func PredominantEmotionForPsychologist(psychologistId int) (string, error) {
	var row EmotionCount
	err := DB.Model(&Session{}).
		Select("predominant_emotion AS emotion, COUNT(*) AS count").
		Where("psychologist_id = ? AND predominant_emotion <> ''", psychologistId).
		Group("predominant_emotion").
		Order("count desc").
		Limit(1).
		Scan(&row).Error
	return row.Emotion, err
}

// EmotionBreakdownForPsychologist counts detected emotions across all of the
// psychologist's sessions, most frequent first.
func EmotionBreakdownForPsychologist(psychologistId int) ([]*EmotionCount, error) {
	var counts []*EmotionCount
	err := DB.Model(&DetectedEmotion{}).
		Select("detected_emotions.emotion AS emotion, COUNT(*) AS count").
		Joins("JOIN sessions ON sessions.id = detected_emotions.session_id").
		Where("sessions.psychologist_id = ?", psychologistId).
		Group("detected_emotions.emotion").
		Order("count desc").
		Scan(&counts).Error
	return counts, err
}

// MonthlySessionCounts returns one entry per calendar month of the current
// year, in order, with zero counts for months without sessions.
func MonthlySessionCounts(psychologistId int) ([]*MonthlyCount, error) {
	now := time.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	var rows []*MonthlyCount
	err := DB.Model(&Session{}).
		Select("MONTH(started_at) AS month, COUNT(*) AS count").
		Where("psychologist_id = ? AND started_at >= ?", psychologistId, yearStart).
		Group("month").
		Order("month asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]int64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Count
	}
	out := make([]*MonthlyCount, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, &MonthlyCount{Month: m, Count: byMonth[m]})
	}
	return out, nil
}

// PatientSessionStats aggregates per-patient counters used by reports.
type PatientSessionStats struct {
	PatientId     int        `json:"patientId"`
	SessionCount  int64      `json:"sessionCount"`
	AvgConfidence float64    `json:"avgConfidence"`
	LastSession   *time.Time `json:"lastSession"`
}

func SessionStatsByPatient(psychologistId int) ([]*PatientSessionStats, error) {
	var rows []*PatientSessionStats
	err := DB.Model(&Session{}).
		Select("patient_id AS patient_id, COUNT(*) AS session_count, AVG(avg_confidence) AS avg_confidence, MAX(started_at) AS last_session").
		Where("psychologist_id = ?", psychologistId).
		Group("patient_id").
		Scan(&rows).Error
	return rows, err
}
