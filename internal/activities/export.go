package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportSheet = "Activities"

var exportHeader = []string{"Date", "Category", "Subcategory", "Title", "Quantity", "Unit", "Emission Factor", "Total Emissions (kg CO2e)"}

// ExportReport renders a user's activities for a period as an xlsx workbook
// with a trailing total row.
func (s *Service) ExportReport(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]byte, error) {
	activities, err := s.repo.ListByUserPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()
	file.SetSheetName("Sheet1", exportSheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		_ = file.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	var total float64
	for i, a := range activities {
		row := i + 2
		values := []interface{}{
			a.Date.Format("2006-01-02"),
			string(a.Category),
			a.Subcategory,
			a.Title,
			a.Quantity,
			a.Unit,
			a.EmissionFactor,
			a.TotalEmissions,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
		total += a.TotalEmissions
	}

	totalRow := len(activities) + 2
	labelCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	_ = file.SetCellValue(exportSheet, labelCell, "Total")
	_ = file.SetCellValue(exportSheet, valueCell, total)
	_ = file.SetCellStyle(exportSheet, labelCell, valueCell, headerStyle)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
