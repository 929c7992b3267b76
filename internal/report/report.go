package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"emosense/internal/dao"
	"emosense/internal/model"
	"emosense/pkg/log"
)

type Type string

const (
	TypeMonthly    Type = "monthly"
	TypePatient    Type = "patient"
	TypeTrends     Type = "trends"
	TypeEfficiency Type = "efficiency"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeMonthly, TypePatient, TypeTrends, TypeEfficiency:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

var typeTitles = map[Type]string{
	TypeMonthly:    "Reporte Mensual de Sesiones",
	TypePatient:    "Reporte por Paciente",
	TypeTrends:     "Reporte de Tendencias Emocionales",
	TypeEfficiency: "Reporte de Eficiencia Terapéutica",
}

var emotionNames = map[string]string{
	"angry":    "Enojo",
	"disgust":  "Disgusto",
	"fear":     "Miedo",
	"happy":    "Felicidad",
	"neutral":  "Neutral",
	"sad":      "Tristeza",
	"surprise": "Sorpresa",
}

var emotionColors = map[string]string{
	"angry":    "#DC143C",
	"disgust":  "#228B22",
	"fear":     "#8B008B",
	"happy":    "#FFD700",
	"neutral":  "#808080",
	"sad":      "#4169E1",
	"surprise": "#FF8C00",
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// TranslateEmotion maps a model class to its display label; unknown
// labels pass through unchanged.
func TranslateEmotion(emotion string) string {
	if name, ok := emotionNames[emotion]; ok {
		return name
	}
	return emotion
}

func EmotionColor(emotion string) string {
	if color, ok := emotionColors[emotion]; ok {
		return color
	}
	return "#808080"
}

// MonthName maps a month ordinal (1-12) to its Spanish name; out-of-range
// ordinals pass through as numbers.
func MonthName(month int) string {
	if month >= 1 && month <= 12 {
		return monthNames[month-1]
	}
	return fmt.Sprintf("%d", month)
}

// Percent renders part of total as a whole-number percentage. Rounded
// values across a whole breakdown need not sum to exactly 100.
func Percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Progress maps a mean confidence ratio to a 0-100 progress figure with a
// 1.2 boost, clamped.
func Progress(avgConfidence float64) int {
	p := math.Round(avgConfidence * 100 * 1.2)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return int(p)
}

type EmotionSlice struct {
	Emotion string
	Label   string
	Color   string
	Count   int64
	Percent int
}

type MonthBar struct {
	Label string
	Count int64
}

type PatientRow struct {
	Name         string
	SessionCount int64
	LastSession  string
	Predominant  string
	Progress     int
}

type TrendRow struct {
	Label   string
	Percent int
	Note    string
}

// Data is the assembled, render-ready report.
type Data struct {
	Type               Type
	Title              string
	GeneratedAt        time.Time
	Period             string
	TotalSessions      int64
	TotalPatients      int64
	AvgConfidence      float64
	PredominantEmotion string
	Emotions           []EmotionSlice
	Monthly            []MonthBar
	Patients           []PatientRow
	Trends             []TrendRow
	Insights           []string
}

// PatientStat is one patient's aggregate as the stats source reports it.
type PatientStat struct {
	Name          string
	SessionCount  int64
	AvgConfidence float64
	LastSession   *time.Time
	Predominant   string
}

// StatsSource provides the statistics a report is assembled from. The three
// core lookups are independent: Gather degrades a failing section to empty
// instead of failing the whole report.
type StatsSource interface {
	Summary(ctx context.Context) (*dao.StatisticsSummary, error)
	EmotionBreakdown(ctx context.Context) ([]*model.EmotionCount, error)
	MonthlySessions(ctx context.Context) ([]*model.MonthlyCount, error)
	PatientStats(ctx context.Context) ([]*PatientStat, error)
}

func Gather(ctx context.Context, src StatsSource, typ Type, period string) *Data {
	logger := log.GetLogger(ctx)
	data := &Data{
		Type:        typ,
		Title:       typeTitles[typ],
		GeneratedAt: time.Now(),
		Period:      period,
	}

	if summary, err := src.Summary(ctx); err != nil {
		logger.WithError(err).Error("gather summary failed")
	} else if summary != nil {
		data.TotalSessions = summary.TotalSessions
		data.TotalPatients = summary.TotalPatients
		data.AvgConfidence = summary.AvgConfidence
		data.PredominantEmotion = TranslateEmotion(summary.PredominantEmotion)
	}

	if breakdown, err := src.EmotionBreakdown(ctx); err != nil {
		logger.WithError(err).Error("gather emotion breakdown failed")
	} else {
		var total int64
		for _, c := range breakdown {
			total += c.Count
		}
		for _, c := range breakdown {
			data.Emotions = append(data.Emotions, EmotionSlice{
				Emotion: c.Emotion,
				Label:   TranslateEmotion(c.Emotion),
				Color:   EmotionColor(c.Emotion),
				Count:   c.Count,
				Percent: Percent(c.Count, total),
			})
		}
	}

	if monthly, err := src.MonthlySessions(ctx); err != nil {
		logger.WithError(err).Error("gather monthly sessions failed")
	} else {
		for _, m := range monthly {
			data.Monthly = append(data.Monthly, MonthBar{
				Label: MonthName(m.Month),
				Count: m.Count,
			})
		}
	}

	switch typ {
	case TypePatient:
		if stats, err := src.PatientStats(ctx); err != nil {
			logger.WithError(err).Error("gather patient stats failed")
		} else {
			for _, s := range stats {
				row := PatientRow{
					Name:         s.Name,
					SessionCount: s.SessionCount,
					LastSession:  "-",
					Predominant:  TranslateEmotion(s.Predominant),
					Progress:     Progress(s.AvgConfidence),
				}
				if s.LastSession != nil {
					row.LastSession = s.LastSession.Format("2006-01-02")
				}
				data.Patients = append(data.Patients, row)
			}
		}
	case TypeTrends:
		for _, e := range data.Emotions {
			note := "estable"
			if e.Percent >= 40 {
				note = "dominante"
			} else if e.Percent <= 10 {
				note = "poco frecuente"
			}
			data.Trends = append(data.Trends, TrendRow{
				Label:   e.Label,
				Percent: e.Percent,
				Note:    note,
			})
		}
	case TypeEfficiency:
		perPatient := 0.0
		if data.TotalPatients > 0 {
			perPatient = float64(data.TotalSessions) / float64(data.TotalPatients)
		}
		data.Insights = append(data.Insights,
			fmt.Sprintf("Confianza promedio de detección: %.1f%%", data.AvgConfidence*100),
			fmt.Sprintf("Sesiones por paciente: %.1f", perPatient),
			fmt.Sprintf("Emoción predominante del período: %s", orDash(data.PredominantEmotion)),
		)
	}

	return data
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Empty reports whether every core counter gathered to zero, meaning the
// report would render blank.
func (d *Data) Empty() bool {
	return d.TotalSessions == 0 && d.TotalPatients == 0 && len(d.Emotions) == 0
}

// FromView builds a minimal single-session report from a normalized session
// view. Used as a fallback so a report is never completely empty when the
// caller still has local data to show.
func FromView(view *dao.SessionView, typ Type) *Data {
	data := &Data{
		Type:               typ,
		Title:              typeTitles[typ],
		GeneratedAt:        time.Now(),
		Period:             view.Date.Format("2006-01-02"),
		TotalSessions:      1,
		TotalPatients:      1,
		AvgConfidence:      view.AvgConfidence,
		PredominantEmotion: TranslateEmotion(view.PredominantEmotion),
	}
	var total int64
	for _, c := range view.EmotionCounts {
		total += int64(c)
	}
	for emotion, c := range view.EmotionCounts {
		data.Emotions = append(data.Emotions, EmotionSlice{
			Emotion: emotion,
			Label:   TranslateEmotion(emotion),
			Color:   EmotionColor(emotion),
			Count:   int64(c),
			Percent: Percent(int64(c), total),
		})
	}
	sort.Slice(data.Emotions, func(i, j int) bool {
		if data.Emotions[i].Count != data.Emotions[j].Count {
			return data.Emotions[i].Count > data.Emotions[j].Count
		}
		return data.Emotions[i].Label < data.Emotions[j].Label
	})
	return data
}

// PDFFilename and ExcelFilename follow the legacy download naming.
func PDFFilename(typ Type, now time.Time) string {
	return fmt.Sprintf("reporte_%s_%s.pdf", typ, now.Format("2006-01-02"))
}

func ExcelFilename(typ Type, now time.Time) string {
	return fmt.Sprintf("%s_report_%s.xlsx", typ, now.Format("2006-01-02"))
}
