// Package export converts the harvest CSV dataset into analyst-facing
// formats.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "robots_scrape"

// XLSX writes the CSV dataset at csvPath as an Excel workbook at
// xlsxPath. Rows are carried over verbatim as text cells so values like
// leading-zero timestamps survive the conversion.
func XLSX(csvPath, xlsxPath string, logger *zap.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", csvPath, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", csvPath, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("dataset %s is empty", csvPath)
	}

	book := excelize.NewFile()
	defer func() {
		if err := book.Close(); err != nil {
			logger.Warn("Workbook close failed", zap.Error(err))
		}
	}()

	index, err := book.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("compute cell for row %d: %w", i+1, err)
		}
		// SetSheetRow wants typed values; text keeps the 14-digit
		// stamps intact.
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := book.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := book.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("save workbook %s: %w", xlsxPath, err)
	}
	logger.Info("Workbook exported",
		zap.String("path", xlsxPath),
		zap.Int("rows", len(rows)-1))
	return nil
}
