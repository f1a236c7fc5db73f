package models

import "time"

// DateLayout is the wire format for calendar dates. Time-of-day is never
// exchanged by the milking API.
const DateLayout = "2006-01-02"

// Session identifies one of the two daily milking events.
type Session string

const (
	SessionAm Session = "Am"
	SessionPm Session = "Pm"
)

// Valid reports whether the session token is one of the two accepted values.
// Tokens are case-sensitive in the portal protocol.
func (s Session) Valid() bool {
	return s == SessionAm || s == SessionPm
}

// MilkingObservation is one recorded milk quantity set for one animal on one
// calendar date. A nil session quantity means that session has not been
// recorded yet, which is distinct from an explicit zero.
type MilkingObservation struct {
	TagNo         int64     `bson:"tag_no" json:"animalTagNo"`
	Date          time.Time `bson:"date" json:"-"`
	AmQuantity    *float64  `bson:"am_quantity,omitempty" json:"amQuantity,omitempty"`
	PmQuantity    *float64  `bson:"pm_quantity,omitempty" json:"pmQuantity,omitempty"`
	EmployeeID    string    `bson:"employee_id" json:"employeeId"`
	ColostrumMilk bool      `bson:"colostrum_milk" json:"colostrumMilk"`
	UpdatedAt     time.Time `bson:"updated_at" json:"-"`
}

// Total derives the daily total, treating an unrecorded session as zero.
// The total is never stored independently.
func (o MilkingObservation) Total() float64 {
	var total float64
	if o.AmQuantity != nil {
		total += *o.AmQuantity
	}
	if o.PmQuantity != nil {
		total += *o.PmQuantity
	}
	return total
}

// SessionQuantity returns the quantity recorded for the given session, or nil
// when that session has not been written.
func (o MilkingObservation) SessionQuantity(s Session) *float64 {
	if s == SessionAm {
		return o.AmQuantity
	}
	return o.PmQuantity
}

// DailyGroupTotal is the per-date rollup across all animals of a group.
// Derived data; rebuilt from observations on every read.
type DailyGroupTotal struct {
	Date    time.Time `json:"-"`
	TotalAM float64   `json:"totalAM"`
	TotalPM float64   `json:"totalPM"`
}

// Total is the day's grand total across both sessions.
func (d DailyGroupTotal) Total() float64 {
	return d.TotalAM + d.TotalPM
}

// AnimalRangeTotal is one animal's total production over an inclusive date
// range.
type AnimalRangeTotal struct {
	TagNo int64   `json:"animalTagNo"`
	Total float64 `json:"total"`
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
