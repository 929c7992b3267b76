package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"emosense/internal/dao"
	"emosense/internal/model"
	"emosense/internal/report"
	"emosense/internal/utils"
)

// modelStatsSource feeds reports from the database, scoped to one
// psychologist.
type modelStatsSource struct {
	psychologistId int
}

func (m *modelStatsSource) Summary(ctx context.Context) (*dao.StatisticsSummary, error) {
	summary := &dao.StatisticsSummary{}
	var err error
	if summary.TotalSessions, err = model.CountSessionsByPsychologist(m.psychologistId); err != nil {
		return nil, err
	}
	if summary.TotalPatients, err = model.CountPatientsByPsychologist(m.psychologistId); err != nil {
		return nil, err
	}
	if summary.AvgConfidence, err = model.AverageSessionConfidence(m.psychologistId); err != nil {
		return nil, err
	}
	if summary.PredominantEmotion, err = model.PredominantEmotionForPsychologist(m.psychologistId); err != nil {
		return nil, err
	}
	return summary, nil
}

func (m *modelStatsSource) EmotionBreakdown(ctx context.Context) ([]*model.EmotionCount, error) {
	return model.EmotionBreakdownForPsychologist(m.psychologistId)
}

func (m *modelStatsSource) MonthlySessions(ctx context.Context) ([]*model.MonthlyCount, error) {
	return model.MonthlySessionCounts(m.psychologistId)
}

func (m *modelStatsSource) PatientStats(ctx context.Context) ([]*report.PatientStat, error) {
	rows, err := model.SessionStatsByPatient(m.psychologistId)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PatientId)
	}
	patients, err := model.ListPatientsByIds(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(patients))
	for _, p := range patients {
		names[p.Id] = p.FullName()
	}

	stats := make([]*report.PatientStat, 0, len(rows))
	for _, r := range rows {
		name := names[r.PatientId]
		if name == "" {
			name = fmt.Sprintf("Paciente %d", r.PatientId)
		}
		stats = append(stats, &report.PatientStat{
			Name:          name,
			SessionCount:  r.SessionCount,
			AvgConfidence: r.AvgConfidence,
			LastSession:   r.LastSession,
		})
	}
	return stats, nil
}

// latestSessionView loads the psychologist's newest session and routes it
// through the shared normalization layer. Returns nil when no session
// exists, in which case the empty report stands.
func (s *Server) latestSessionView(psychologistId int) *dao.SessionView {
	sessions, _, err := model.ListSessions(psychologistId, 0, 0, 1)
	if err != nil || len(sessions) == 0 {
		return nil
	}
	sess := sessions[0]

	counts := map[string]int{}
	if emotions, err := model.ListEmotionsBySession(sess.Id); err == nil {
		for _, e := range emotions {
			counts[e.Emotion]++
		}
	}
	var patientName string
	if patient, err := model.GetPatientById(sess.PatientId); err == nil && patient != nil {
		patientName = patient.FullName()
	}
	return sessionViewFromModel(sess, counts, patientName)
}

func sessionViewFromModel(sess *model.Session, counts map[string]int, patientName string) *dao.SessionView {
	src := &dao.SessionSource{
		Uuid:               &sess.Uuid,
		Notes:              &sess.Notes,
		DurationSeconds:    &sess.DurationSeconds,
		PredominantEmotion: &sess.PredominantEmotion,
		EmotionCounts:      counts,
		AvgConfidence:      &sess.AvgConfidence,
		Date:               &sess.StartedAt,
	}
	if patientName != "" {
		src.PatientName = &patientName
	}
	return src.Normalize()
}

// handleExportReport assembles and streams a report
// @Summary Export a report
// @Tags reports
// @Produce application/octet-stream
// @Param report_type path string true "monthly|patient|trends|efficiency"
// @Param format query string false "pdf or xlsx" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "unknown report type or format"
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/report/{report_type}/export [get]
func (s *Server) handleExportReport(c *gin.Context) {
	typ, err := report.ParseType(c.Param("report_type"))
	if err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	format := c.DefaultQuery("format", "pdf")
	if format != "pdf" && format != "xlsx" {
		s.writeError(c, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}

	now := time.Now()
	src := &modelStatsSource{psychologistId: currentPsychologist(c).Id}
	data := report.Gather(c.Request.Context(), src, typ, fmt.Sprintf("%d", now.Year()))
	if data.Empty() {
		// degraded statistics layer: fall back to the newest stored
		// session instead of streaming a blank document
		if view := s.latestSessionView(src.psychologistId); view != nil {
			data = report.FromView(view, typ)
		}
	}

	var buf bytes.Buffer
	var filename, contentType string
	switch format {
	case "pdf":
		filename = report.PDFFilename(typ, now)
		contentType = "application/pdf"
		err = report.RenderPDF(data, &buf)
	case "xlsx":
		filename = report.ExcelFilename(typ, now)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = report.RenderExcel(data, &buf)
	}
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	s.archiveReport(c.Request.Context(), filename, buf.Bytes())

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// archiveReport keeps a copy of every export in the object store when one
// is configured. Failures only cost the archive copy, never the download.
func (s *Server) archiveReport(ctx context.Context, filename string, data []byte) {
	if s.minioCli == nil {
		return
	}
	now := time.Now()
	minioPath := fmt.Sprintf("/reports/%04d/%02d/%s", now.Year(), now.Month(), filename)

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := utils.UploadBytesToMinio(uploadCtx, s.minioCli, s.conf.S3.Bucket, minioPath, data); err != nil {
		s.logger.WithError(err).Errorf("archive report %s to minio failed", filename)
	}
}
