package shift

import (
	"context"
	"time"
)

// ShiftService defines business logic around shift policies.
type ShiftService interface {
	// Resolve returns the policy that applies to the employee on the given
	// date. Absence of a configured policy is not an error: the company
	// default policy is returned instead.
	Resolve(ctx context.Context, employeeID string, date time.Time) (Policy, error)

	// ResolveForCompany is the claims-free variant of Resolve for callers
	// outside a request scope (batch runs, scheduled jobs).
	ResolveForCompany(ctx context.Context, employeeID string, companyID string) (Policy, error)

	// Upsert creates or replaces an employee's policy (admin action).
	Upsert(ctx context.Context, req UpsertShiftPolicyRequest) (PolicyResponse, error)

	// GetByEmployee returns the employee's effective policy, marking whether
	// it is the fallback default.
	GetByEmployee(ctx context.Context, employeeID string) (PolicyResponse, error)

	List(ctx context.Context) ([]PolicyResponse, error)

	Delete(ctx context.Context, employeeID string) error
}
