package shift

import (
	"time"
)

// Policy is the shift configuration the reconciliation engine classifies
// against. One active policy per employee at a time; the most recently
// updated row wins. Employees without a policy fall back to the company
// default resolved by the shift service.
type Policy struct {
	ID         string
	CompanyID  string
	EmployeeID *string // nil = company-wide default policy

	StartTime          string // wall clock, "15:04"
	EndTime            string // wall clock, "15:04"
	TimeZone           string // IANA name, e.g. "Asia/Jakarta"
	LateGraceMinutes   int
	FullDayHours       float64
	HalfDayHours       float64
	WeeklyOffDays      WeekdaySet
	AutoExtend         bool // keep accruing hours past EndTime

	// Geofence for punch capture. Nil disables the radius check.
	OfficeLatitude  *float64
	OfficeLongitude *float64
	RadiusMeters    *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeekdaySet holds weekday indices 0 (Sunday) through 6 (Saturday).
type WeekdaySet []int

func (s WeekdaySet) Contains(d time.Weekday) bool {
	for _, day := range s {
		if day == int(d) {
			return true
		}
	}
	return false
}

// Location returns the policy time zone, falling back to UTC when the
// configured name does not load.
func (p Policy) Location() *time.Location {
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartOn anchors the wall-clock start time to the given calendar date in
// the policy time zone.
func (p Policy) StartOn(date time.Time) time.Time {
	return p.clockOn(date, p.StartTime)
}

// EndOn anchors the wall-clock end time to the given calendar date in the
// policy time zone.
func (p Policy) EndOn(date time.Time) time.Time {
	return p.clockOn(date, p.EndTime)
}

func (p Policy) clockOn(date time.Time, clock string) time.Time {
	loc := p.Location()
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// GracePeriod returns the late grace as a duration.
func (p Policy) GracePeriod() time.Duration {
	return time.Duration(p.LateGraceMinutes) * time.Minute
}

// FullDayThreshold returns the full-day hour threshold as a duration.
func (p Policy) FullDayThreshold() time.Duration {
	return time.Duration(p.FullDayHours * float64(time.Hour))
}

// HalfDayThreshold returns the half-day hour threshold as a duration.
func (p Policy) HalfDayThreshold() time.Duration {
	return time.Duration(p.HalfDayHours * float64(time.Hour))
}

// IsWeeklyOff reports whether the given date falls on a configured
// weekly-off day.
func (p Policy) IsWeeklyOff(date time.Time) bool {
	return p.WeeklyOffDays.Contains(date.Weekday())
}
