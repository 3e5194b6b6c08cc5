package leave

import (
	"context"
)

// LeaveRequestRepository defines data access methods for leave requests.
// All methods include companyID to keep tenants isolated.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	Update(ctx context.Context, request LeaveRequest) error

	List(ctx context.Context, filter LeaveFilter, companyID string) ([]LeaveRequest, error)

	// ListApprovedByEmployee returns every approved request the employee has
	// ever had, ordered by start date. The accountant windows them itself.
	ListApprovedByEmployee(ctx context.Context, employeeID string, companyID string) ([]LeaveRequest, error)
}
