package attendance

import (
	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

type PunchInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r PunchInRequest) Validate() error {
	var errs validator.ValidationErrors
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r PunchOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AdminPunchOutRequest closes a punch record on behalf of an employee who
// missed their punch-out.
type AdminPunchOutRequest struct {
	RecordID string `json:"record_id"`
	PunchOut string `json:"punch_out"` // RFC3339
}

func (r AdminPunchOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{Field: "record_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDateTime(r.PunchOut); !ok {
		errs = append(errs, validator.ValidationError{Field: "punch_out", Message: "must be an RFC3339 timestamp"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordIdleRequest struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

func (r RecordIdleRequest) Validate() error {
	var errs validator.ValidationErrors
	start, startOK := validator.IsValidDateTime(r.Start)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "must be an RFC3339 timestamp"})
	}
	end, endOK := validator.IsValidDateTime(r.End)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "must be an RFC3339 timestamp"})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "must be after start"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	EmployeeID *string
	StartDate  string // "2006-01-02"
	EndDate    string // "2006-01-02"
}

func (f HistoryFilter) Validate() error {
	var errs validator.ValidationErrors
	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchRecordResponse struct {
	ID            string         `json:"id"`
	EmployeeID    string         `json:"employee_id"`
	EmployeeName  string         `json:"employee_name,omitempty"`
	Date          string         `json:"date"`
	PunchIn       *string        `json:"punch_in"`
	PunchOut      *string        `json:"punch_out"`
	AdminOverride bool           `json:"admin_override"`
	IdleIntervals []IdleInterval `json:"idle_intervals,omitempty"`
}

type ClassificationResponse struct {
	Date             string  `json:"date"`
	WorkedMinutes    int     `json:"worked_minutes"`
	LoginStatus      string  `json:"login_status"`
	WorkedCategory   string  `json:"worked_category"`
	WeeklyOff        bool    `json:"weekly_off"`
	StillWorking     bool    `json:"still_working"`
	IntegrityProblem *string `json:"integrity_problem,omitempty"`
}

type HistoryResponse struct {
	EmployeeID string                   `json:"employee_id"`
	Days       []ClassificationResponse `json:"days"`
	FullDays   int                      `json:"full_days"`
	HalfDays   int                      `json:"half_days"`
	AbsentDays int                      `json:"absent_days"`
	LateDays   int                      `json:"late_days"`
}
