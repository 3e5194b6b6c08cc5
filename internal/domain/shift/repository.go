package shift

import (
	"context"
)

// ShiftPolicyRepository defines data access methods for shift policies.
// All methods include companyID to keep tenants isolated.
type ShiftPolicyRepository interface {
	// GetCurrentByEmployeeID returns the employee's active policy, i.e. the
	// most recently updated one. Returns ErrShiftPolicyNotFound when the
	// employee has none configured.
	GetCurrentByEmployeeID(ctx context.Context, employeeID string, companyID string) (Policy, error)

	// Upsert creates or replaces the employee's policy.
	Upsert(ctx context.Context, policy Policy) (Policy, error)

	ListByCompanyID(ctx context.Context, companyID string) ([]Policy, error)

	DeleteByEmployeeID(ctx context.Context, employeeID string, companyID string) error
}
