package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the company-level payroll configuration the aggregator
// divides and windows by.
type Settings struct {
	ID        string
	CompanyID string

	// MonthlyWorkingDays is the denominator for the per-day salary.
	MonthlyWorkingDays int

	// LeaveYearStartMonth anchors the 12-month leave accounting window.
	LeaveYearStartMonth time.Month

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem is the aggregator's per-employee, per-period output.
// Invariant: NetPayableSalary = WorkedSalary - LossOfPayDeduction, with
// LossOfPayDeduction >= 0. Net payable is deliberately not floored at
// zero.
type LineItem struct {
	EmployeeID   string
	EmployeeName string

	BaseSalary   decimal.Decimal
	PerDaySalary decimal.Decimal

	FullDays        int
	HalfDays        int
	TotalWorkedDays decimal.Decimal

	WorkedSalary       decimal.Decimal
	ExtraLeaveDays     int
	LossOfPayDeduction decimal.Decimal
	NetPayableSalary   decimal.Decimal
}

// LineItemFailure records why one employee's line item could not be
// produced. Failures never abort the rest of the batch.
type LineItemFailure struct {
	EmployeeID   string
	EmployeeName string
	Reason       string
}

// RunReport is the result of one batch payroll run over a period.
type RunReport struct {
	RunID       string
	CompanyID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt time.Time

	Items    []LineItem
	Failures []LineItemFailure
}
