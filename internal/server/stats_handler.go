package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emosense/internal/dao"
	"emosense/internal/model"
)

// handleStatisticsSummary returns the headline counters
// @Summary Statistics summary
// @Tags statistics
// @Produce json
// @Success 200 {object} dao.StatisticsSummary
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/statistics/summary [get]
func (s *Server) handleStatisticsSummary(c *gin.Context) {
	user := currentPsychologist(c)

	summary := &dao.StatisticsSummary{}
	var err error
	if summary.TotalSessions, err = model.CountSessionsByPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if summary.TotalPatients, err = model.CountPatientsByPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if summary.AvgConfidence, err = model.AverageSessionConfidence(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if summary.PredominantEmotion, err = model.PredominantEmotionForPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleStatisticsEmotions returns the detected-emotion breakdown
// @Summary Emotion breakdown
// @Tags statistics
// @Produce json
// @Success 200 {object} dao.EmotionBreakdownResponse
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/statistics/emotions [get]
func (s *Server) handleStatisticsEmotions(c *gin.Context) {
	counts, err := model.EmotionBreakdownForPsychologist(currentPsychologist(c).Id)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, dao.EmotionBreakdownResponse{Items: counts})
}

// handleStatisticsMonthly returns per-month session counts for the year
// @Summary Monthly session counts
// @Tags statistics
// @Produce json
// @Success 200 {object} dao.MonthlySessionsResponse
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/statistics/monthly [get]
func (s *Server) handleStatisticsMonthly(c *gin.Context) {
	counts, err := model.MonthlySessionCounts(currentPsychologist(c).Id)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, dao.MonthlySessionsResponse{Items: counts})
}

// handleDashboardStats returns everything the landing screen needs
// @Summary Dashboard stats
// @Tags statistics
// @Produce json
// @Success 200 {object} dao.DashboardStats
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/dashboard/stats [get]
func (s *Server) handleDashboardStats(c *gin.Context) {
	user := currentPsychologist(c)

	stats := &dao.DashboardStats{}
	var err error
	if stats.TotalPatients, err = model.CountPatientsByPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.TotalSessions, err = model.CountSessionsByPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.SessionsToday, err = model.CountSessionsToday(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.PatientsNewThisMonth, err = model.CountPatientsNewThisMonth(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.AvgConfidence, err = model.AverageSessionConfidence(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.EmotionBreakdown, err = model.EmotionBreakdownForPsychologist(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if stats.MonthlySessions, err = model.MonthlySessionCounts(user.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	sessions, _, err := model.ListSessions(user.Id, 0, 0, 5)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	stats.RecentSessions = make([]*dao.RecentSession, 0, len(sessions))
	for _, session := range sessions {
		recent := &dao.RecentSession{
			Id:                 session.Id,
			PredominantEmotion: session.PredominantEmotion,
			StartedAt:          session.StartedAt.Format("2006-01-02 15:04"),
		}
		if patient, err := model.GetPatientById(session.PatientId); err == nil && patient != nil {
			recent.PatientName = patient.FullName()
		}
		stats.RecentSessions = append(stats.RecentSessions, recent)
	}

	c.JSON(http.StatusOK, stats)
}
