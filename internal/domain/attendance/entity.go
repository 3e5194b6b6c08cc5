package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PunchRecord is one employee-day of raw punch data. PunchIn is created by
// the employee's check-in; PunchOut is set by check-out, by an approved
// missed-punch-out correction, or by the auto-close job (AdminOverride).
// Records are appended and amended, never deleted.
type PunchRecord struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time // calendar day in the shift time zone, truncated

	PunchIn  *time.Time
	PunchOut *time.Time

	PunchInLatitude   *float64
	PunchInLongitude  *float64
	PunchOutLatitude  *float64
	PunchOutLongitude *float64

	IdleIntervals IdleIntervals

	// AdminOverride marks a punch-out supplied by an administrator or the
	// auto-close job rather than captured from the employee.
	AdminOverride bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// IdleInterval is a recorded span of inactivity within a worked day.
type IdleInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i IdleInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

type IdleIntervals []IdleInterval

// Total sums the interval durations.
func (ii IdleIntervals) Total() time.Duration {
	var total time.Duration
	for _, interval := range ii {
		total += interval.Duration()
	}
	return total
}

// Value implements driver.Valuer for JSONB storage.
func (ii IdleIntervals) Value() (driver.Value, error) {
	if len(ii) == 0 {
		return nil, nil
	}
	return json.Marshal(ii)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (ii *IdleIntervals) Scan(value interface{}) error {
	if value == nil {
		*ii = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan IdleIntervals: invalid type")
	}
	return json.Unmarshal(bytes, ii)
}

type LoginStatus string

const (
	LoginOnTime        LoginStatus = "ON_TIME"
	LoginLate          LoginStatus = "LATE"
	LoginNotApplicable LoginStatus = "NOT_APPLICABLE"
)

type WorkedCategory string

const (
	CategoryFullDay       WorkedCategory = "FULL_DAY"
	CategoryHalfDay       WorkedCategory = "HALF_DAY"
	CategoryAbsent        WorkedCategory = "ABSENT"
	CategoryNotApplicable WorkedCategory = "NOT_APPLICABLE"
)

// Classification is the derived per-day result of running a punch record
// through the classifier. It is recomputed on every query and never stored
// as ground truth.
type Classification struct {
	EmployeeID     string
	Date           time.Time
	WorkedDuration time.Duration
	LoginStatus    LoginStatus
	WorkedCategory WorkedCategory

	// WeeklyOff marks a scheduled day off with no punch activity. Such days
	// are excluded from both the present and absent sides of attendance
	// aggregates.
	WeeklyOff bool

	// InProgress marks a record whose punch-out has not happened yet on the
	// current day; surfaced to callers as "still working", not as absent.
	InProgress bool
}
