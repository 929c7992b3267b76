package report

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/dao"
	"emosense/internal/model"
)

type fakeStats struct {
	summary      *dao.StatisticsSummary
	summaryErr   error
	breakdown    []*model.EmotionCount
	breakdownErr error
	monthly      []*model.MonthlyCount
	monthlyErr   error
	patients     []*PatientStat
	patientsErr  error
}

func (f *fakeStats) Summary(ctx context.Context) (*dao.StatisticsSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeStats) EmotionBreakdown(ctx context.Context) ([]*model.EmotionCount, error) {
	return f.breakdown, f.breakdownErr
}

func (f *fakeStats) MonthlySessions(ctx context.Context) ([]*model.MonthlyCount, error) {
	return f.monthly, f.monthlyErr
}

func (f *fakeStats) PatientStats(ctx context.Context) ([]*PatientStat, error) {
	return f.patients, f.patientsErr
}

func fullStats() *fakeStats {
	last := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	return &fakeStats{
		summary: &dao.StatisticsSummary{
			TotalSessions:      24,
			TotalPatients:      6,
			AvgConfidence:      0.71,
			PredominantEmotion: "happy",
		},
		breakdown: []*model.EmotionCount{
			{Emotion: "happy", Count: 12},
			{Emotion: "neutral", Count: 8},
			{Emotion: "sad", Count: 4},
		},
		monthly: []*model.MonthlyCount{
			{Month: 1, Count: 3}, {Month: 2, Count: 5}, {Month: 3, Count: 16},
		},
		patients: []*PatientStat{
			{Name: "Ana Ruiz", SessionCount: 4, AvgConfidence: 0.9, LastSession: &last, Predominant: "happy"},
			{Name: "Luis Mora", SessionCount: 2, AvgConfidence: 0.5, Predominant: "neutral"},
		},
	}
}

func TestGatherMonthly(t *testing.T) {
	data := Gather(context.Background(), fullStats(), TypeMonthly, "2025")

	assert.Equal(t, int64(24), data.TotalSessions)
	assert.Equal(t, "Felicidad", data.PredominantEmotion)
	require.Len(t, data.Emotions, 3)
	assert.Equal(t, "Felicidad", data.Emotions[0].Label)
	assert.Equal(t, 50, data.Emotions[0].Percent)
	assert.Equal(t, "#FFD700", data.Emotions[0].Color)
	require.Len(t, data.Monthly, 3)
	assert.Equal(t, "Enero", data.Monthly[0].Label)
	assert.False(t, data.Empty())
}

func TestGatherSectionsDegradeIndependently(t *testing.T) {
	stats := fullStats()
	stats.breakdownErr = errors.New("db gone")

	data := Gather(context.Background(), stats, TypeMonthly, "2025")

	assert.Empty(t, data.Emotions)
	// the other sections are untouched by the breakdown failure
	assert.Equal(t, int64(24), data.TotalSessions)
	assert.Len(t, data.Monthly, 3)
}

func TestGatherAllFailed(t *testing.T) {
	stats := &fakeStats{
		summaryErr:   errors.New("down"),
		breakdownErr: errors.New("down"),
		monthlyErr:   errors.New("down"),
	}
	data := Gather(context.Background(), stats, TypeMonthly, "2025")
	assert.True(t, data.Empty())
}

func TestGatherPatientRows(t *testing.T) {
	data := Gather(context.Background(), fullStats(), TypePatient, "2025")

	require.Len(t, data.Patients, 2)
	assert.Equal(t, "Ana Ruiz", data.Patients[0].Name)
	assert.Equal(t, "2025-05-20", data.Patients[0].LastSession)
	// 0.9 * 1.2 clamps at 100
	assert.Equal(t, 100, data.Patients[0].Progress)
	assert.Equal(t, "-", data.Patients[1].LastSession)
	assert.Equal(t, 60, data.Patients[1].Progress)
}

func TestGatherTrendRows(t *testing.T) {
	data := Gather(context.Background(), fullStats(), TypeTrends, "2025")

	require.Len(t, data.Trends, 3)
	assert.Equal(t, "dominante", data.Trends[0].Note)
	assert.Equal(t, 50, data.Trends[0].Percent)
}

func TestFromView(t *testing.T) {
	view := &dao.SessionView{
		PredominantEmotion: "happy",
		EmotionCounts:      map[string]int{"happy": 3, "neutral": 1},
		AvgConfidence:      0.7,
		Date:               time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	data := FromView(view, TypeMonthly)

	assert.False(t, data.Empty())
	assert.Equal(t, int64(1), data.TotalSessions)
	require.Len(t, data.Emotions, 2)
	assert.Equal(t, "Felicidad", data.Emotions[0].Label)
	assert.Equal(t, 75, data.Emotions[0].Percent)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 0, Percent(1, 0))
	assert.Equal(t, 100, Percent(5, 5))
}

func TestProgressClamp(t *testing.T) {
	assert.Equal(t, 0, Progress(0))
	assert.Equal(t, 60, Progress(0.5))
	assert.Equal(t, 96, Progress(0.8))
	assert.Equal(t, 100, Progress(0.9))
	assert.Equal(t, 100, Progress(2))
}

func TestTranslations(t *testing.T) {
	assert.Equal(t, "Tristeza", TranslateEmotion("sad"))
	assert.Equal(t, "confused", TranslateEmotion("confused"))
	assert.Equal(t, "Marzo", MonthName(3))
	assert.Equal(t, "13", MonthName(13))
	assert.Equal(t, "0", MonthName(0))
}

func TestFilenames(t *testing.T) {
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "reporte_monthly_2025-08-31.pdf", PDFFilename(TypeMonthly, now))
	assert.Equal(t, "trends_report_2025-08-31.xlsx", ExcelFilename(TypeTrends, now))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("patient")
	require.NoError(t, err)
	assert.Equal(t, TypePatient, typ)

	_, err = ParseType("weekly")
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	data := Gather(context.Background(), fullStats(), TypePatient, "2025")
	require.NoError(t, RenderPDF(data, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderExcel(t *testing.T) {
	var buf bytes.Buffer
	data := Gather(context.Background(), fullStats(), TypeTrends, "2025")
	require.NoError(t, RenderExcel(data, &buf))
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

// inflateStreams decompresses every FlateDecode content stream in a PDF so
// tests can inspect the drawn text.
func inflateStreams(pdf []byte) []byte {
	var out bytes.Buffer
	rest := pdf
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		chunk := rest[i+len("stream"):]
		for len(chunk) > 0 && (chunk[0] == '\r' || chunk[0] == '\n') {
			chunk = chunk[1:]
		}
		j := bytes.Index(chunk, []byte("endstream"))
		if j < 0 {
			break
		}
		if r, err := zlib.NewReader(bytes.NewReader(chunk[:j])); err == nil {
			io.Copy(&out, r)
			r.Close()
		}
		rest = chunk[j+len("endstream"):]
	}
	return out.Bytes()
}

func TestRenderPDFLatinEncoding(t *testing.T) {
	var buf bytes.Buffer
	data := Gather(context.Background(), fullStats(), TypeMonthly, "Enero 2025")
	require.NoError(t, RenderPDF(data, &buf))

	// core fonts are cp1252: accented text must be re-encoded, raw
	// utf-8 bytes would render as mojibake
	text := string(inflateStreams(buf.Bytes()))
	assert.Contains(t, text, "P\xe1gina")
	assert.Contains(t, text, "Per\xedodo")
	assert.Contains(t, text, "Emoci\xf3n predominante")
	assert.NotContains(t, text, "P\xc3\xa1gina")
	assert.NotContains(t, text, "Emoci\xc3\xb3n")
}
