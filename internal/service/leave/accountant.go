package leave

import (
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/leave"
)

// YearAccountant computes leave balances against a fixed 12-month cycle
// that starts on the first day of a configured month. It is a pure
// computation over the employee's approved requests.
type YearAccountant struct {
	startMonth time.Month
}

func NewYearAccountant(startMonth time.Month) *YearAccountant {
	return &YearAccountant{startMonth: startMonth}
}

// Window returns the leave year containing asOf. The window starts on the
// first of the configured month and runs one year; Start is inclusive, End
// exclusive.
func (a *YearAccountant) Window(asOf time.Time) leave.YearWindow {
	start := time.Date(asOf.Year(), a.startMonth, 1, 0, 0, 0, 0, asOf.Location())
	if asOf.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return leave.YearWindow{
		Start: start,
		End:   start.AddDate(1, 0, 0),
	}
}

// Account settles the employee's approved requests against the window
// containing asOf.
//
// Leave is earned at one day per month of the window, credited up front
// for the month in progress. A request counts toward the window its start
// date falls in, for its full inclusive length, even when the range runs
// past the window end. Extra is all-time usage beyond the single free day
// every employee gets once, not per year.
func (a *YearAccountant) Account(requests []leave.LeaveRequest, asOf time.Time) leave.Account {
	window := a.Window(asOf)

	monthsElapsed := int(asOf.Month()) - int(window.Start.Month()) +
		12*(asOf.Year()-window.Start.Year())
	earned := monthsElapsed + 1

	used := 0
	totalEver := 0
	for _, request := range requests {
		if request.Status != leave.StatusApproved {
			continue
		}
		days := request.Days()
		totalEver += days
		if window.ContainsStart(request.From) {
			used += days
		}
	}

	pending := earned - used
	if pending < 0 {
		pending = 0
	}
	extra := totalEver - 1
	if extra < 0 {
		extra = 0
	}

	return leave.Account{
		Earned:  earned,
		Used:    used,
		Pending: pending,
		Extra:   extra,
	}
}
