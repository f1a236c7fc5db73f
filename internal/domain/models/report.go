package models

// SummaryRow is one date line of the group summary view. Dates are already
// formatted with DateLayout because the views are wire shapes.
type SummaryRow struct {
	Date    string  `json:"date"`
	TotalAM float64 `json:"totalAM"`
	TotalPM float64 `json:"totalPM"`
	Total   float64 `json:"total"`
}

// GroupSummary is the compact per-group report: one row per calendar date in
// the range, most recent first, plus grand totals over the whole range.
type GroupSummary struct {
	GroupID      string       `json:"groupId"`
	GroupName    string       `json:"groupName,omitempty"`
	StartDate    string       `json:"startDate"`
	EndDate      string       `json:"endDate"`
	Rows         []SummaryRow `json:"dates"`
	GrandTotalAM float64      `json:"grandTotalAM"`
	GrandTotalPM float64      `json:"grandTotalPM"`
	GrandTotal   float64      `json:"grandTotal"`
}

// DetailRow is one chronological line of the animal-by-date drill-down.
// Quantities and RecordedBy align positionally with GroupDetail.Animals;
// a zero-filled cell carries an empty recorder id.
type DetailRow struct {
	Date       string    `json:"date"`
	Quantities []float64 `json:"perAnimalTotal"`
	RecordedBy []string  `json:"recordedBy"`
}

// GroupDetail is the drill-down view: a dense animal-by-date matrix in
// chronological order with a trailing per-animal TOTAL line.
type GroupDetail struct {
	GroupID      string             `json:"groupId"`
	GroupName    string             `json:"groupName,omitempty"`
	EmployeeID   string             `json:"employeeId,omitempty"`
	EmployeeName string             `json:"employeeName,omitempty"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	Animals      []int64            `json:"animals"`
	Rows         []DetailRow        `json:"rows"`
	AnimalTotals []AnimalRangeTotal `json:"animalRangeTotals"`
	GroupTotal   float64            `json:"groupTotal"`
}

// FarmReport aggregates the summaries of every group in a farm. Groups whose
// reference or observation fetch failed are omitted rather than failing the
// whole report.
type FarmReport struct {
	FarmID     string         `json:"farmId"`
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
	Groups     []GroupSummary `json:"groups"`
	GrandTotal float64        `json:"grandTotal"`
}
