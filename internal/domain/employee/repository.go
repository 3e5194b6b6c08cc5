package employee

import (
	"context"
)

// EmployeeRepository defines the read access the engine needs on the
// employee directory.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ListActiveCompanyIDs returns the distinct companies with at least one
	// active employee. Used by the scheduled jobs, which run across tenants.
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
}
