package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// RenderExcel writes the report as an XLSX workbook: a Resumen sheet
// always, Sesiones when monthly data exists, and the type-specific
// Pacientes / Tendencias sheets when applicable.
func RenderExcel(data *Data, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Resumen"
	f.SetSheetName("Sheet1", summary)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E9ECEF"}},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(summary, "A1", data.Title)
	f.SetCellStyle(summary, "A1", "A1", titleStyle)
	f.SetCellValue(summary, "A2", "Generado")
	f.SetCellValue(summary, "B2", data.GeneratedAt.Format("2006-01-02 15:04"))
	f.SetCellValue(summary, "A3", "Período")
	f.SetCellValue(summary, "B3", data.Period)

	f.SetCellValue(summary, "A5", "Total de sesiones")
	f.SetCellValue(summary, "B5", data.TotalSessions)
	f.SetCellValue(summary, "A6", "Total de pacientes")
	f.SetCellValue(summary, "B6", data.TotalPatients)
	f.SetCellValue(summary, "A7", "Confianza promedio")
	f.SetCellValue(summary, "B7", fmt.Sprintf("%.1f%%", data.AvgConfidence*100))
	f.SetCellValue(summary, "A8", "Emoción predominante")
	f.SetCellValue(summary, "B8", orDash(data.PredominantEmotion))

	if len(data.Emotions) > 0 {
		f.SetCellValue(summary, "A10", "Emoción")
		f.SetCellValue(summary, "B10", "Conteo")
		f.SetCellValue(summary, "C10", "Porcentaje")
		f.SetCellStyle(summary, "A10", "C10", headerStyle)
		for i, e := range data.Emotions {
			row := 11 + i
			f.SetCellValue(summary, fmt.Sprintf("A%d", row), e.Label)
			f.SetCellValue(summary, fmt.Sprintf("B%d", row), e.Count)
			f.SetCellValue(summary, fmt.Sprintf("C%d", row), fmt.Sprintf("%d%%", e.Percent))
		}
	}
	f.SetColWidth(summary, "A", "A", 24)
	f.SetColWidth(summary, "B", "C", 18)

	if len(data.Monthly) > 0 {
		const sessions = "Sesiones"
		if _, err := f.NewSheet(sessions); err != nil {
			return err
		}
		f.SetCellValue(sessions, "A1", "Mes")
		f.SetCellValue(sessions, "B1", "Sesiones")
		f.SetCellStyle(sessions, "A1", "B1", headerStyle)
		for i, m := range data.Monthly {
			row := 2 + i
			f.SetCellValue(sessions, fmt.Sprintf("A%d", row), m.Label)
			f.SetCellValue(sessions, fmt.Sprintf("B%d", row), m.Count)
		}
		f.SetColWidth(sessions, "A", "B", 16)
	}

	if len(data.Patients) > 0 {
		const patients = "Pacientes"
		if _, err := f.NewSheet(patients); err != nil {
			return err
		}
		headers := []string{"Paciente", "Sesiones", "Última sesión", "Emoción predominante", "Progreso"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(patients, cell, h)
		}
		f.SetCellStyle(patients, "A1", "E1", headerStyle)
		for i, p := range data.Patients {
			row := 2 + i
			f.SetCellValue(patients, fmt.Sprintf("A%d", row), p.Name)
			f.SetCellValue(patients, fmt.Sprintf("B%d", row), p.SessionCount)
			f.SetCellValue(patients, fmt.Sprintf("C%d", row), p.LastSession)
			f.SetCellValue(patients, fmt.Sprintf("D%d", row), p.Predominant)
			f.SetCellValue(patients, fmt.Sprintf("E%d", row), fmt.Sprintf("%d%%", p.Progress))
		}
		f.SetColWidth(patients, "A", "E", 20)
	}

	if len(data.Trends) > 0 {
		const trends = "Tendencias"
		if _, err := f.NewSheet(trends); err != nil {
			return err
		}
		f.SetCellValue(trends, "A1", "Emoción")
		f.SetCellValue(trends, "B1", "Porcentaje")
		f.SetCellValue(trends, "C1", "Tendencia")
		f.SetCellStyle(trends, "A1", "C1", headerStyle)
		for i, t := range data.Trends {
			row := 2 + i
			f.SetCellValue(trends, fmt.Sprintf("A%d", row), t.Label)
			f.SetCellValue(trends, fmt.Sprintf("B%d", row), fmt.Sprintf("%d%%", t.Percent))
			f.SetCellValue(trends, fmt.Sprintf("C%d", row), t.Note)
		}
		f.SetColWidth(trends, "A", "C", 20)
	}

	return f.Write(w)
}
