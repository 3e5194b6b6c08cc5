package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

type GeneratePayrollRequest struct {
	StartDate   string   `json:"start_date"` // "2006-01-02"
	EndDate     string   `json:"end_date"`   // "2006-01-02"
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
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

type UpdateSettingsRequest struct {
	MonthlyWorkingDays  *int `json:"monthly_working_days"`
	LeaveYearStartMonth *int `json:"leave_year_start_month"`
}

func (r UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.MonthlyWorkingDays != nil && *r.MonthlyWorkingDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "monthly_working_days", Message: "must be positive"})
	}
	if r.LeaveYearStartMonth != nil && (*r.LeaveYearStartMonth < 1 || *r.LeaveYearStartMonth > 12) {
		errs = append(errs, validator.ValidationError{Field: "leave_year_start_month", Message: "must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	CompanyID           string `json:"company_id"`
	MonthlyWorkingDays  int    `json:"monthly_working_days"`
	LeaveYearStartMonth int    `json:"leave_year_start_month"`
}

type LineItemResponse struct {
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	PerDaySalary       decimal.Decimal `json:"per_day_salary"`
	FullDays           int             `json:"full_days"`
	HalfDays           int             `json:"half_days"`
	TotalWorkedDays    decimal.Decimal `json:"total_worked_days"`
	WorkedSalary       decimal.Decimal `json:"worked_salary"`
	ExtraLeaveDays     int             `json:"extra_leave_days"`
	LossOfPayDeduction decimal.Decimal `json:"loss_of_pay_deduction"`
	NetPayableSalary   decimal.Decimal `json:"net_payable_salary"`
}

type LineItemFailureResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

type RunReportResponse struct {
	RunID       string                    `json:"run_id"`
	PeriodStart string                    `json:"period_start"`
	PeriodEnd   string                    `json:"period_end"`
	GeneratedAt string                    `json:"generated_at"`
	Items       []LineItemResponse        `json:"items"`
	Failures    []LineItemFailureResponse `json:"failures,omitempty"`
}
