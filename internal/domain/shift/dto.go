package shift

import (
	"time"

	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

type UpsertShiftPolicyRequest struct {
	EmployeeID       string   `json:"employee_id"`
	StartTime        string   `json:"start_time"` // "HH:MM"
	EndTime          string   `json:"end_time"`   // "HH:MM"
	TimeZone         string   `json:"time_zone"`
	LateGraceMinutes int      `json:"late_grace_minutes"`
	FullDayHours     float64  `json:"full_day_hours"`
	HalfDayHours     float64  `json:"half_day_hours"`
	WeeklyOffDays    []int    `json:"weekly_off_days"`
	AutoExtend       *bool    `json:"auto_extend"`
	OfficeLatitude   *float64 `json:"office_latitude"`
	OfficeLongitude  *float64 `json:"office_longitude"`
	RadiusMeters     *int     `json:"radius_meters"`
}

func (r UpsertShiftPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidClockTime(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be in HH:MM format"})
	}
	if !validator.IsValidClockTime(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be in HH:MM format"})
	}
	if validator.IsValidClockTime(r.StartTime) && validator.IsValidClockTime(r.EndTime) && r.EndTime <= r.StartTime {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be after start_time"})
	}
	if r.TimeZone != "" {
		if _, err := time.LoadLocation(r.TimeZone); err != nil {
			errs = append(errs, validator.ValidationError{Field: "time_zone", Message: "must be a valid IANA time zone"})
		}
	}
	if r.LateGraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_grace_minutes", Message: "must not be negative"})
	}
	if r.FullDayHours <= 0 {
		errs = append(errs, validator.ValidationError{Field: "full_day_hours", Message: "must be positive"})
	}
	if r.HalfDayHours <= 0 || r.HalfDayHours >= r.FullDayHours {
		errs = append(errs, validator.ValidationError{Field: "half_day_hours", Message: "must be positive and lower than full_day_hours"})
	}
	for _, day := range r.WeeklyOffDays {
		if day < 0 || day > 6 {
			errs = append(errs, validator.ValidationError{Field: "weekly_off_days", Message: "weekday indices must be between 0 (Sunday) and 6 (Saturday)"})
			break
		}
	}
	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{Field: "radius_meters", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	ID               string   `json:"id"`
	EmployeeID       *string  `json:"employee_id"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
	TimeZone         string   `json:"time_zone"`
	LateGraceMinutes int      `json:"late_grace_minutes"`
	FullDayHours     float64  `json:"full_day_hours"`
	HalfDayHours     float64  `json:"half_day_hours"`
	WeeklyOffDays    []int    `json:"weekly_off_days"`
	AutoExtend       bool     `json:"auto_extend"`
	OfficeLatitude   *float64 `json:"office_latitude,omitempty"`
	OfficeLongitude  *float64 `json:"office_longitude,omitempty"`
	RadiusMeters     *int     `json:"radius_meters,omitempty"`
	IsDefault        bool     `json:"is_default"`
}
