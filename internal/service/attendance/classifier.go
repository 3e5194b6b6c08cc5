package attendance

import (
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

// Classifier turns one day's raw punches plus the resolved shift policy
// into a worked-day category and login status. It is a pure computation:
// the same record and policy always classify the same way, and nothing
// here touches storage.
type Classifier struct {
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify derives the classification for one punch record. now decides
// whether a record with a missing punch-out is still in progress.
//
// Malformed records (punch-out not after punch-in, idle time exceeding the
// worked span) return a *attendance.DataIntegrityError instead of being
// clamped into a plausible-looking result.
func (c *Classifier) Classify(record attendance.PunchRecord, policy shift.Policy, now time.Time) (attendance.Classification, error) {
	result := attendance.Classification{
		EmployeeID:     record.EmployeeID,
		Date:           record.Date,
		LoginStatus:    attendance.LoginNotApplicable,
		WorkedCategory: attendance.CategoryNotApplicable,
	}

	// A scheduled day off with no punch activity is neither present nor
	// absent; callers exclude it from both sides of their aggregates.
	if policy.IsWeeklyOff(record.Date) && record.PunchIn == nil && record.PunchOut == nil {
		result.WeeklyOff = true
		return result, nil
	}

	if record.PunchIn == nil {
		result.WorkedCategory = attendance.CategoryAbsent
		return result, nil
	}

	if err := c.checkIntegrity(record); err != nil {
		return attendance.Classification{}, err
	}

	result.LoginStatus = c.loginStatus(record, policy)

	if record.PunchOut == nil {
		if c.sameLocalDay(record.Date, now, policy) {
			// Still working; surfaced as in progress, not as absent.
			result.InProgress = true
			return result, nil
		}
		// A past day that never got a punch-out has no measurable worked
		// span; it counts as an absence until a correction supplies one.
		result.WorkedCategory = attendance.CategoryAbsent
		return result, nil
	}

	worked := c.workedDuration(record, policy)
	result.WorkedDuration = worked
	result.WorkedCategory = c.category(worked, policy)
	return result, nil
}

// checkIntegrity rejects records whose timestamps cannot be true. These
// were historically clamped to zero, which buried the corruption instead
// of surfacing it.
func (c *Classifier) checkIntegrity(record attendance.PunchRecord) error {
	if record.PunchIn != nil && record.PunchOut != nil && !record.PunchOut.After(*record.PunchIn) {
		return &attendance.DataIntegrityError{
			EmployeeID: record.EmployeeID,
			Date:       record.Date,
			Reason:     "punch-out is not after punch-in",
		}
	}

	for _, interval := range record.IdleIntervals {
		if interval.End.Before(interval.Start) {
			return &attendance.DataIntegrityError{
				EmployeeID: record.EmployeeID,
				Date:       record.Date,
				Reason:     "idle interval ends before it starts",
			}
		}
	}

	if record.PunchIn != nil && record.PunchOut != nil {
		span := record.PunchOut.Sub(*record.PunchIn)
		if record.IdleIntervals.Total() > span {
			return &attendance.DataIntegrityError{
				EmployeeID: record.EmployeeID,
				Date:       record.Date,
				Reason:     "idle time exceeds the worked span",
			}
		}
	}

	return nil
}

func (c *Classifier) loginStatus(record attendance.PunchRecord, policy shift.Policy) attendance.LoginStatus {
	graceLimit := policy.StartOn(record.Date).Add(policy.GracePeriod())
	if record.PunchIn.After(graceLimit) {
		return attendance.LoginLate
	}
	return attendance.LoginOnTime
}

// workedDuration is elapsed punch time minus idle time. When the policy
// does not auto-extend, accrual stops at the shift end.
func (c *Classifier) workedDuration(record attendance.PunchRecord, policy shift.Policy) time.Duration {
	punchOut := *record.PunchOut
	if !policy.AutoExtend {
		shiftEnd := policy.EndOn(record.Date)
		if punchOut.After(shiftEnd) {
			punchOut = shiftEnd
		}
	}

	worked := punchOut.Sub(*record.PunchIn) - record.IdleIntervals.Total()
	if worked < 0 {
		worked = 0
	}
	return worked
}

// category applies the hour thresholds. Working fewer hours than the
// half-day threshold still counts as an absence for payroll purposes.
func (c *Classifier) category(worked time.Duration, policy shift.Policy) attendance.WorkedCategory {
	switch {
	case worked >= policy.FullDayThreshold():
		return attendance.CategoryFullDay
	case worked >= policy.HalfDayThreshold():
		return attendance.CategoryHalfDay
	default:
		return attendance.CategoryAbsent
	}
}

func (c *Classifier) sameLocalDay(date time.Time, now time.Time, policy shift.Policy) bool {
	nowLocal := now.In(policy.Location())
	return date.Year() == nowLocal.Year() && date.Month() == nowLocal.Month() && date.Day() == nowLocal.Day()
}
