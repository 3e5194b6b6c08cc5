package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/attendly/attendly-backend-go/internal/domain/payroll"
)

// Aggregator folds one employee's classified attendance and leave account
// into a payroll line item. All money math is decimal; float64 is never
// used for salary amounts.
type Aggregator struct {
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

var half = decimal.NewFromFloat(0.5)

// LineItem computes the per-period line for one employee.
//
// perDaySalary = baseSalary / monthlyWorkingDays
// totalWorkedDays = fullDays + 0.5*halfDays
// lossOfPayDeduction = extraLeaveDays * perDaySalary
// netPayableSalary = workedSalary - lossOfPayDeduction
//
// Net payable is not floored: an employee whose extra leave exceeds worked
// days legitimately shows a negative payable.
func (a *Aggregator) LineItem(employeeID, employeeName string, baseSalary decimal.Decimal, monthlyWorkingDays int, fullDays, halfDays, extraLeaveDays int) (payroll.LineItem, error) {
	if monthlyWorkingDays <= 0 {
		return payroll.LineItem{}, &payroll.ConfigurationError{
			EmployeeID: employeeID,
			Reason:     "monthly working days must be positive",
		}
	}

	perDay := baseSalary.Div(decimal.NewFromInt(int64(monthlyWorkingDays)))
	totalWorkedDays := decimal.NewFromInt(int64(fullDays)).
		Add(decimal.NewFromInt(int64(halfDays)).Mul(half))
	workedSalary := perDay.Mul(totalWorkedDays)
	lossOfPay := perDay.Mul(decimal.NewFromInt(int64(extraLeaveDays)))

	return payroll.LineItem{
		EmployeeID:         employeeID,
		EmployeeName:       employeeName,
		BaseSalary:         baseSalary,
		PerDaySalary:       perDay,
		FullDays:           fullDays,
		HalfDays:           halfDays,
		TotalWorkedDays:    totalWorkedDays,
		WorkedSalary:       workedSalary,
		ExtraLeaveDays:     extraLeaveDays,
		LossOfPayDeduction: lossOfPay,
		NetPayableSalary:   workedSalary.Sub(lossOfPay),
	}, nil
}
