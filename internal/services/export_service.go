package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/tigearis/finsight/internal/forecast"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	loanSvc *LoanService
}

func NewExportService(loanSvc *LoanService) *ExportService {
	return &ExportService{loanSvc: loanSvc}
}

// ExportScheduleCSV renders a loan's amortization schedule as CSV.
func (s *ExportService) ExportScheduleCSV(ctx context.Context, loanID, userID uint) ([]byte, string, error) {
	result, err := s.loanSvc.Schedule(ctx, loanID, userID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	// Header
	_ = writer.Write([]string{"Amortization Schedule", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	// Summary Section
	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Periodic Payment", fmt.Sprintf("%.2f", result.PeriodicPayment)})
	_ = writer.Write([]string{"Total Interest", fmt.Sprintf("%.2f", result.TotalInterest)})
	_ = writer.Write([]string{"Total Payments", fmt.Sprintf("%d", result.TotalPayments)})
	_ = writer.Write([]string{"Payoff Date", result.PayoffDate.Format("2006-01-02")})
	_ = writer.Write([]string{""})

	// Schedule Section
	_ = writer.Write([]string{"Period", "Date", "Payment", "Principal", "Interest", "Balance"})
	for _, entry := range result.Schedule {
		_ = writer.Write([]string{
			fmt.Sprintf("%d", entry.Period),
			entry.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", entry.Total),
			fmt.Sprintf("%.2f", entry.Principal),
			fmt.Sprintf("%.2f", entry.Interest),
			fmt.Sprintf("%.2f", entry.RemainingBalance),
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("loan_%d_schedule_%s.csv", loanID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportScheduleXLSX renders a loan's amortization schedule as a workbook.
func (s *ExportService) ExportScheduleXLSX(ctx context.Context, loanID, userID uint) ([]byte, string, error) {
	result, err := s.loanSvc.Schedule(ctx, loanID, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Amortization Schedule")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Summary")
	_ = f.SetCellValue(sheet, "A4", "Periodic Payment")
	_ = f.SetCellValue(sheet, "B4", result.PeriodicPayment)
	_ = f.SetCellValue(sheet, "A5", "Total Interest")
	_ = f.SetCellValue(sheet, "B5", result.TotalInterest)
	_ = f.SetCellValue(sheet, "A6", "Total Payments")
	_ = f.SetCellValue(sheet, "B6", result.TotalPayments)
	_ = f.SetCellValue(sheet, "A7", "Payoff Date")
	_ = f.SetCellValue(sheet, "B7", result.PayoffDate.Format("2006-01-02"))

	headers := []string{"Period", "Date", "Payment", "Principal", "Interest", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 9)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, entry := range result.Schedule {
		values := []interface{}{
			entry.Period,
			entry.DueDate.Format("2006-01-02"),
			entry.Total,
			entry.Principal,
			entry.Interest,
			entry.RemainingBalance,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+10)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("loan_%d_schedule_%s.xlsx", loanID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportSchedulePDF renders a loan's amortization schedule as a PDF. Long
// schedules paginate automatically.
func (s *ExportService) ExportSchedulePDF(ctx context.Context, loanID, userID uint) ([]byte, string, error) {
	result, err := s.loanSvc.Schedule(ctx, loanID, userID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Amortization Schedule")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Periodic Payment:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", result.PeriodicPayment))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Interest:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", result.TotalInterest))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Payments:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", result.TotalPayments))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Payoff Date:")
	pdf.Cell(40, 10, result.PayoffDate.Format("2006-01-02"))
	pdf.Ln(12)

	writeScheduleHeader(pdf)
	pdf.SetFont("Arial", "", 9)
	for _, entry := range result.Schedule {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeScheduleHeader(pdf)
			pdf.SetFont("Arial", "", 9)
		}
		pdf.Cell(20, 6, fmt.Sprintf("%d", entry.Period))
		pdf.Cell(30, 6, entry.DueDate.Format("2006-01-02"))
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", entry.Total))
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", entry.Principal))
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", entry.Interest))
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", entry.RemainingBalance))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("loan_%d_schedule_%s.pdf", loanID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeScheduleHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(20, 6, "Period")
	pdf.Cell(30, 6, "Date")
	pdf.Cell(30, 6, "Payment")
	pdf.Cell(30, 6, "Principal")
	pdf.Cell(30, 6, "Interest")
	pdf.Cell(30, 6, "Balance")
	pdf.Ln(7)
}

// ExportProjectionCSV renders a projection as CSV.
func (s *ExportService) ExportProjectionCSV(projection *forecast.CashFlowProjection) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Cash Flow Projection", string(projection.Window)})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Total Income", fmt.Sprintf("%.2f", projection.TotalIncome)})
	_ = writer.Write([]string{"Total Expenses", fmt.Sprintf("%.2f", projection.TotalExpenses)})
	_ = writer.Write([]string{"Net Cash Flow", fmt.Sprintf("%.2f", projection.Net)})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Date", "Description", "Amount", "Direction", "Source", "Confidence"})
	for _, entry := range projection.Entries {
		_ = writer.Write([]string{
			entry.Date.Format("2006-01-02"),
			entry.Description,
			fmt.Sprintf("%.2f", entry.Amount),
			string(entry.Direction),
			string(entry.Source),
			fmt.Sprintf("%.2f", entry.Confidence),
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("cashflow_%s_%s.csv", projection.Window, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportProjectionXLSX renders a projection as a workbook.
func (s *ExportService) ExportProjectionXLSX(projection *forecast.CashFlowProjection) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Projection"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Cash Flow Projection")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "B1", string(projection.Window))

	_ = f.SetCellValue(sheet, "A3", "Summary")
	_ = f.SetCellValue(sheet, "A4", "Total Income")
	_ = f.SetCellValue(sheet, "B4", projection.TotalIncome)
	_ = f.SetCellValue(sheet, "A5", "Total Expenses")
	_ = f.SetCellValue(sheet, "B5", projection.TotalExpenses)
	_ = f.SetCellValue(sheet, "A6", "Net Cash Flow")
	_ = f.SetCellValue(sheet, "B6", projection.Net)
	_ = f.SetCellValue(sheet, "A7", "Confidence")
	_ = f.SetCellValue(sheet, "B7", projection.Confidence)

	headers := []string{"Date", "Description", "Amount", "Direction", "Source", "Confidence"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 9)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, entry := range projection.Entries {
		values := []interface{}{
			entry.Date.Format("2006-01-02"),
			entry.Description,
			entry.Amount,
			string(entry.Direction),
			string(entry.Source),
			entry.Confidence,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+10)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("cashflow_%s_%s.xlsx", projection.Window, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportProjectionPDF renders a projection as a PDF. Long entry lists
// paginate automatically.
func (s *ExportService) ExportProjectionPDF(projection *forecast.CashFlowProjection) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Cash Flow Projection")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Window:")
	pdf.Cell(40, 10, string(projection.Window))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Income:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", projection.TotalIncome))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Expenses:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", projection.TotalExpenses))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Net Cash Flow:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", projection.Net))
	pdf.Ln(12)

	writeProjectionHeader(pdf)
	pdf.SetFont("Arial", "", 9)
	for _, entry := range projection.Entries {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeProjectionHeader(pdf)
			pdf.SetFont("Arial", "", 9)
		}
		pdf.Cell(25, 6, entry.Date.Format("2006-01-02"))
		pdf.Cell(55, 6, entry.Description)
		pdf.Cell(25, 6, fmt.Sprintf("%.2f", entry.Amount))
		pdf.Cell(25, 6, string(entry.Direction))
		pdf.Cell(25, 6, string(entry.Source))
		pdf.Cell(20, 6, fmt.Sprintf("%.2f", entry.Confidence))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("cashflow_%s_%s.pdf", projection.Window, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeProjectionHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(25, 6, "Date")
	pdf.Cell(55, 6, "Description")
	pdf.Cell(25, 6, "Amount")
	pdf.Cell(25, 6, "Direction")
	pdf.Cell(25, 6, "Source")
	pdf.Cell(20, 6, "Confidence")
	pdf.Ln(7)
}
