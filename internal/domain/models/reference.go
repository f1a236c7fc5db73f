package models

// Animal is reference data owned by the herd-management backend. The milking
// core reads it only to enumerate group members and label report columns.
type Animal struct {
	TagNo       int64  `json:"tagNo"`
	Gender      string `json:"gender"`
	LactationNo int    `json:"lactationNo"`
}

// Group is an operator-defined collection of animals milked together.
// Read-only here; group lifecycle belongs to the grouping screens.
type Group struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FarmID     string `json:"farmId"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// GroupMembers is the membership snapshot for one group: the responsible
// recorder plus the member animals.
type GroupMembers struct {
	GroupID      string   `json:"groupId"`
	EmployeeID   string   `json:"employeeId"`
	EmployeeName string   `json:"employeeName"`
	Animals      []Animal `json:"animals"`
}

// TagNumbers lists the member tag numbers in membership order.
func (g GroupMembers) TagNumbers() []int64 {
	tags := make([]int64, 0, len(g.Animals))
	for _, a := range g.Animals {
		tags = append(tags, a.TagNo)
	}
	return tags
}
