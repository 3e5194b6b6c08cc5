package leave

import (
	"time"
)

type LeaveRequestStatus string

const (
	StatusPending   LeaveRequestStatus = "pending"
	StatusApproved  LeaveRequestStatus = "approved"
	StatusRejected  LeaveRequestStatus = "rejected"
	StatusCancelled LeaveRequestStatus = "cancelled"
)

// Terminal reports whether the status admits no further employee-side
// transitions. Terminal requests change only through a new admin action.
func (s LeaveRequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// LeaveRequest is an inclusive date-range leave submission.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	CompanyID  string
	LeaveType  string

	From time.Time
	To   time.Time

	Reason string

	Status          LeaveRequestStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

// Days returns the inclusive day count of the request range.
func (r LeaveRequest) Days() int {
	from := truncateDay(r.From)
	to := truncateDay(r.To)
	return int(to.Sub(from).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// YearWindow is the fixed 12-month leave cycle a request is accounted
// against. Start is inclusive, End exclusive.
type YearWindow struct {
	Start time.Time
	End   time.Time
}

// ContainsStart reports whether a request beginning at from counts toward
// this window.
func (w YearWindow) ContainsStart(from time.Time) bool {
	day := truncateDay(from)
	return !day.Before(w.Start) && day.Before(w.End)
}

// Account is the output of the leave year accountant for one employee.
type Account struct {
	// Earned is the leave credited so far in the current window: one day
	// per elapsed month, inclusive of the current month.
	Earned int

	// Used is the inclusive day count of approved requests starting inside
	// the current window.
	Used int

	// Pending is the remaining balance, floored at zero.
	Pending int

	// Extra is the all-time approved leave beyond the single free day. The
	// payroll aggregator charges each extra day at the per-day salary.
	Extra int
}
