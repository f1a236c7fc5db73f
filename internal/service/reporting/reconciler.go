package reporting

import (
	"time"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
)

// matrixCell is one (animal, date) slot of the dense matrix. Unrecorded
// sessions are flattened to zero here; the matrix does not distinguish "no
// observation" from "observed zero".
type matrixCell struct {
	am         float64
	pm         float64
	employeeID string
}

func (c matrixCell) total() float64 { return c.am + c.pm }

// denseMatrix is the reconciled animal-by-date grid with no holes. Dates are
// ascending; consumers that want most-recent-first walk it backwards. All
// report views derive from one matrix per request so they can never disagree
// on which days have data.
type denseMatrix struct {
	tags  []int64
	dates []time.Time
	// cells[dateIdx][tagIdx]
	cells [][]matrixCell
}

// buildDenseMatrix enumerates every calendar date in [start, end] inclusive
// and fills one cell per (animal, date) pair, substituting zero quantities
// where no observation exists.
func buildDenseMatrix(tags []int64, start, end time.Time, observations []models.MilkingObservation) (*denseMatrix, error) {
	start = models.Day(start)
	end = models.Day(end)
	if end.Before(start) {
		return nil, &models.ValidationError{Field: "dateRange", Reason: "startDate must not be after endDate"}
	}

	dates := enumerateDates(start, end)

	colByTag := make(map[int64]int, len(tags))
	for i, tag := range tags {
		colByTag[tag] = i
	}
	rowByDate := make(map[string]int, len(dates))
	for i, d := range dates {
		rowByDate[d.Format(models.DateLayout)] = i
	}

	cells := make([][]matrixCell, len(dates))
	for i := range cells {
		cells[i] = make([]matrixCell, len(tags))
	}

	for _, obs := range observations {
		col, ok := colByTag[obs.TagNo]
		if !ok {
			// Observation for an animal that left the group; membership is
			// the authority on which columns exist.
			continue
		}
		row, ok := rowByDate[models.Day(obs.Date).Format(models.DateLayout)]
		if !ok {
			continue
		}

		cell := matrixCell{employeeID: obs.EmployeeID}
		if obs.AmQuantity != nil {
			cell.am = *obs.AmQuantity
		}
		if obs.PmQuantity != nil {
			cell.pm = *obs.PmQuantity
		}
		cells[row][col] = cell
	}

	return &denseMatrix{tags: tags, dates: dates, cells: cells}, nil
}

// enumerateDates lists every calendar date from start to end inclusive, in
// ascending order. Both bounds must already be day-truncated.
func enumerateDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
