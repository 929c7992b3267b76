package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// RenderPDF writes the report as an A4 PDF document. Core fonts are
// cp1252, so every string goes through the unicode translator before
// it reaches a cell.
func RenderPDF(data *Data, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writePDFHeader(pdf, tr, data)
	writeSummaryCards(pdf, tr, data)
	if len(data.Emotions) > 0 {
		writeEmotionBars(pdf, tr, data)
	}
	if len(data.Monthly) > 0 {
		writeMonthlyBars(pdf, tr, data)
	}

	switch data.Type {
	case TypePatient:
		writePatientTable(pdf, tr, data)
	case TypeTrends:
		writeTrendList(pdf, tr, data)
	case TypeEfficiency:
		writeInsights(pdf, tr, data, "Métricas de Eficiencia")
	default:
		writeInsights(pdf, tr, data, "Observaciones Generales")
	}

	return pdf.Output(w)
}

func writePDFHeader(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generado: %s", data.GeneratedAt.Format("2006-01-02 15:04"))), "", 1, "L", false, 0, "")
	if data.Period != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s", data.Period)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func ensureRoom(pdf *fpdf.Fpdf, needed float64) {
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+needed > pageHeight-marginBottom {
		pdf.AddPage()
	}
}

func writeSummaryCards(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	cards := []struct {
		label string
		value string
	}{
		{"Total de sesiones", fmt.Sprintf("%d", data.TotalSessions)},
		{"Total de pacientes", fmt.Sprintf("%d", data.TotalPatients)},
		{"Confianza promedio", fmt.Sprintf("%.1f%%", data.AvgConfidence*100)},
		{"Emoción predominante", orDash(data.PredominantEmotion)},
	}

	const cardHeight = 18.0
	cardWidth := (contentWidth - 6) / 2

	ensureRoom(pdf, 2*cardHeight+10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, "Resumen Ejecutivo", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	startY := pdf.GetY()
	for i, card := range cards {
		col := float64(i % 2)
		row := float64(i / 2)
		x := marginLeft + col*(cardWidth+6)
		y := startY + row*(cardHeight+4)

		pdf.SetFillColor(248, 249, 250)
		pdf.SetDrawColor(222, 226, 230)
		pdf.Rect(x, y, cardWidth, cardHeight, "FD")

		pdf.SetXY(x+4, y+3)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(cardWidth-8, 5, tr(card.label), "", 0, "L", false, 0, "")

		pdf.SetXY(x+4, y+9)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(cardWidth-8, 6, tr(card.value), "", 0, "L", false, 0, "")
	}
	pdf.SetY(startY + 2*(cardHeight+4) + 4)
}

func writeEmotionBars(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	ensureRoom(pdf, float64(len(data.Emotions))*8+14)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, tr("Distribución de Emociones"), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	const labelWidth = 40.0
	const valueWidth = 15.0
	barMax := contentWidth - labelWidth - valueWidth

	for _, e := range data.Emotions {
		ensureRoom(pdf, 8)
		y := pdf.GetY()

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(labelWidth, 6, tr(e.Label), "", 0, "L", false, 0, "")

		r, g, b := hexToRGB(e.Color)
		pdf.SetFillColor(r, g, b)
		barWidth := float64(e.Percent) / 100 * barMax
		if barWidth > 0 {
			pdf.Rect(marginLeft+labelWidth, y+1, barWidth, 4, "F")
		}

		pdf.SetXY(marginLeft+labelWidth+barMax, y)
		pdf.CellFormat(valueWidth, 6, fmt.Sprintf("%d%%", e.Percent), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeMonthlyBars(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	const chartHeight = 40.0
	ensureRoom(pdf, chartHeight+22)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, "Sesiones por Mes", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	var max int64 = 1
	for _, m := range data.Monthly {
		if m.Count > max {
			max = m.Count
		}
	}

	barWidth := contentWidth / float64(len(data.Monthly))
	baseY := pdf.GetY() + chartHeight

	pdf.SetFillColor(13, 110, 253)
	for i, m := range data.Monthly {
		h := float64(m.Count) / float64(max) * chartHeight
		x := marginLeft + float64(i)*barWidth
		if h > 0 {
			pdf.Rect(x+1, baseY-h, barWidth-2, h, "F")
		}
	}

	pdf.SetY(baseY + 1)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(108, 117, 125)
	for _, m := range data.Monthly {
		label := m.Label
		if len(label) > 3 {
			label = label[:3]
		}
		pdf.CellFormat(barWidth, 5, tr(label), "", 0, "C", false, 0, "")
	}
	pdf.Ln(10)
}

func writePatientTable(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	ensureRoom(pdf, float64(len(data.Patients))*8+16)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, "Detalle por Paciente", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	widths := []float64{60, 25, 35, 35, 25}
	headers := []string{"Paciente", "Sesiones", "Última sesión", "Predominante", "Progreso"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(233, 236, 239)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range data.Patients {
		ensureRoom(pdf, 7)
		pdf.CellFormat(widths[0], 7, tr(row.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", row.SessionCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(row.LastSession), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(row.Predominant), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%d%%", row.Progress), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeTrendList(pdf *fpdf.Fpdf, tr func(string) string, data *Data) {
	ensureRoom(pdf, float64(len(data.Trends))*7+12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, "Tendencias", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range data.Trends {
		ensureRoom(pdf, 7)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("• %s: %d%% (%s)", t.Label, t.Percent, t.Note)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeInsights(pdf *fpdf.Fpdf, tr func(string) string, data *Data, title string) {
	insights := data.Insights
	if len(insights) == 0 {
		insights = []string{
			fmt.Sprintf("Se registraron %d sesiones para %d pacientes.", data.TotalSessions, data.TotalPatients),
		}
	}
	ensureRoom(pdf, float64(len(insights))*7+12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range insights {
		ensureRoom(pdf, 7)
		pdf.CellFormat(0, 6, tr("• "+line), "", 1, "L", false, 0, "")
	}
}

func hexToRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 128, 128, 128
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 128, 128, 128
	}
	return r, g, b
}
