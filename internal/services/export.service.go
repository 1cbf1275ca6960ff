package services

import (
	"io"
	"strconv"

	"muster/internal/logger"
	. "muster/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ExportService renders a day's check-ins as a tabular A4 PDF.
type ExportService struct {
	log logger.Logger
}

func NewExportService() *ExportService {
	return &ExportService{log: logger.New("ExportService")}
}

func (s *ExportService) DailyReport(w io.Writer, date string, rows []CheckinRow) error {
	log := s.log.Function("DailyReport")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, "Check-in Report")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(60, 10, "Date: "+date, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	widths := []float64{12, 78, 30, 60}
	headers := []string{"#", "Name", "Rank", "Time"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, row := range rows {
		rank := row.Rank
		if rank == "" {
			rank = "-"
		}
		pdf.CellFormat(widths[0], 8, strconv.Itoa(i+1), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, row.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, rank, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, row.CheckedInAt.Format("2006-01-02 15:04:05"), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return log.Err("failed to render PDF", err, "date", date)
	}

	return nil
}
