package leave

import (
	"context"
)

// LeaveService defines business logic for leave requests and balances.
type LeaveService interface {
	// Submit files a new leave request for the authenticated employee.
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)

	// Approve transitions a pending request to approved (admin action).
	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)

	// Reject transitions a pending request to rejected with a reason.
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)

	// Cancel withdraws the employee's own pending request.
	Cancel(ctx context.Context, id string) (LeaveRequestResponse, error)

	// List returns requests visible to the caller.
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequestResponse, error)

	// GetMyBalance computes the authenticated employee's current leave-year
	// account.
	GetMyBalance(ctx context.Context) (BalanceResponse, error)
}
