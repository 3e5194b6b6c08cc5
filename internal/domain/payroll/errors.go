package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollSettingsNotFound = errors.New("payroll settings not found")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)

// ConfigurationError reports an invalid payroll configuration, e.g. a
// non-positive monthly working days denominator. It is fatal to the payroll
// run for the affected employee.
type ConfigurationError struct {
	EmployeeID string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("payroll configuration invalid: %s", e.Reason)
	}
	return fmt.Sprintf("payroll configuration invalid for employee %s: %s", e.EmployeeID, e.Reason)
}
