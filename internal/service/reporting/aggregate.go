package reporting

import "github.com/paladisupraja/dairy-portal/internal/domain/models"

// dailyTotals sums the morning and evening quantities independently across
// all animals, one entry per date in ascending order.
func (m *denseMatrix) dailyTotals() []models.DailyGroupTotal {
	totals := make([]models.DailyGroupTotal, len(m.dates))
	for i, date := range m.dates {
		day := models.DailyGroupTotal{Date: date}
		for _, cell := range m.cells[i] {
			day.TotalAM += cell.am
			day.TotalPM += cell.pm
		}
		totals[i] = day
	}
	return totals
}

// animalTotals sums each animal's daily totals over the whole range, in
// column order.
func (m *denseMatrix) animalTotals() []models.AnimalRangeTotal {
	totals := make([]models.AnimalRangeTotal, len(m.tags))
	for col, tag := range m.tags {
		totals[col].TagNo = tag
	}
	for _, row := range m.cells {
		for col, cell := range row {
			totals[col].Total += cell.total()
		}
	}
	return totals
}

// rangeTotals returns the grand totals per session over the whole range.
// Their sum equals both the sum of daily grand totals and the sum of animal
// range totals; both derive from the same cells.
func (m *denseMatrix) rangeTotals() (totalAM, totalPM float64) {
	for _, row := range m.cells {
		for _, cell := range row {
			totalAM += cell.am
			totalPM += cell.pm
		}
	}
	return totalAM, totalPM
}
