package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee carries the directory fields the reconciliation engine reads:
// identity and the base salary from the current job record. Directory
// management itself lives outside this service.
type Employee struct {
	ID           string
	CompanyID    string
	FullName     string
	EmployeeCode string

	BaseSalary       *decimal.Decimal
	EmploymentStatus string
	HireDate         time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
