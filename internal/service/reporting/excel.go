package reporting

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
)

const detailSheetName = "Milk Detail"

// BuildDetailWorkbook renders the drill-down view as an Excel workbook for
// the portal's download path: a header row of animal tag numbers, one row per
// date in chronological order, and a trailing TOTAL row of per-animal range
// totals.
func BuildDetailWorkbook(detail *models.GroupDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(detailSheetName)
	if err != nil {
		return nil, fmt.Errorf("create detail sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, 0, len(detail.Animals)+2)
	header = append(header, "Date")
	for _, tag := range detail.Animals {
		header = append(header, fmt.Sprintf("Tag %d", tag))
	}
	header = append(header, "Day Total")
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, row := range detail.Rows {
		values := make([]interface{}, 0, len(row.Quantities)+2)
		values = append(values, row.Date)
		var dayTotal float64
		for _, q := range row.Quantities {
			values = append(values, q)
			dayTotal += q
		}
		values = append(values, dayTotal)
		if err := writeRow(f, rowNum, values); err != nil {
			return nil, err
		}
		rowNum++
	}

	totals := make([]interface{}, 0, len(detail.AnimalTotals)+2)
	totals = append(totals, "TOTAL")
	for _, at := range detail.AnimalTotals {
		totals = append(totals, at.Total)
	}
	totals = append(totals, detail.GroupTotal)
	if err := writeRow(f, rowNum, totals); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := f.SetCellValue(detailSheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
