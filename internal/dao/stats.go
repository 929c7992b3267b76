package dao

import "emosense/internal/model"

type StatisticsSummary struct {
	TotalSessions      int64   `json:"totalSessions"`
	TotalPatients      int64   `json:"totalPatients"`
	AvgConfidence      float64 `json:"avgConfidence"`
	PredominantEmotion string  `json:"predominantEmotion"`
}

type EmotionBreakdownResponse struct {
	Items []*model.EmotionCount `json:"items"`
}

type MonthlySessionsResponse struct {
	Items []*model.MonthlyCount `json:"items"`
}

type RecentSession struct {
	Id                 int    `json:"id"`
	PatientName        string `json:"patientName"`
	PredominantEmotion string `json:"predominantEmotion"`
	StartedAt          string `json:"startedAt"`
}

// DashboardStats is the aggregate payload for the landing screen: headline
// counters plus chart-ready series and the latest sessions.
type DashboardStats struct {
	TotalPatients        int64                 `json:"totalPatients"`
	TotalSessions        int64                 `json:"totalSessions"`
	SessionsToday        int64                 `json:"sessionsToday"`
	PatientsNewThisMonth int64                 `json:"patientsNewThisMonth"`
	AvgConfidence        float64               `json:"avgConfidence"`
	EmotionBreakdown     []*model.EmotionCount `json:"emotionBreakdown"`
	MonthlySessions      []*model.MonthlyCount `json:"monthlySessions"`
	RecentSessions       []*RecentSession      `json:"recentSessions"`
}
