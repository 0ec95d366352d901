package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ylc-be-svc/internal/repository"
	"ylc-be-svc/pkg/logger"
)

// ExportService defines the interface for operator exports
type ExportService interface {
	ExportQuotesToExcel(ctx context.Context, from, to *time.Time) ([]byte, string, error)
}

// exportService implements ExportService
type exportService struct {
	quoteRepo repository.QuoteRepository
	logger    *logger.Logger
}

// NewExportService creates a new instance of ExportService
func NewExportService(quoteRepo repository.QuoteRepository, logger *logger.Logger) ExportService {
	return &exportService{
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

var quoteExportHeaders = []string{
	"ID", "Created At", "Name", "Phone", "Email", "Service", "Budget Min", "Budget Max",
	"Location", "Description", "Image 1", "Image 2", "Image 3",
}

// ExportQuotesToExcel writes quotes created within the optional window to an xlsx workbook
func (s *exportService) ExportQuotesToExcel(ctx context.Context, from, to *time.Time) ([]byte, string, error) {
	quotes, err := s.quoteRepo.ListQuotes(ctx, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get quotes: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close Excel file")
		}
	}()

	sheetName := "Quotes"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range quoteExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(quoteExportHeaders))
		f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)
	}

	for i, q := range quotes {
		row := i + 2
		values := []interface{}{
			q.ID,
			q.CreatedAt.Format("2006-01-02 15:04:05"),
			q.Name,
			q.Phone,
			q.Email,
			q.Service,
			q.BudgetMin,
			q.BudgetMax,
			q.Location,
			q.Description,
		}
		for _, ref := range q.ImageRefs() {
			values = append(values, ref[0])
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := 1; i <= len(quoteExportHeaders); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	if f.GetSheetName(0) == "Sheet1" && sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("quotes_export_%s.xlsx", time.Now().Format("20060102_150405"))
	s.logger.WithFields(map[string]interface{}{
		"count":    len(quotes),
		"filename": filename,
	}).Info("Quotes exported")

	return buffer.Bytes(), filename, nil
}
