package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/leave"
	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	accountant *YearAccountant
	now        func() time.Time
}

func NewLeaveService(repo leave.LeaveRequestRepository, accountant *YearAccountant) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: repo,
		accountant:             accountant,
		now:                    time.Now,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, employeeID string, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, _ = claims["employee_id"].(string)
	userID, _ = claims["user_id"].(string)

	return companyID, employeeID, userID, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	companyID, employeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if employeeID == "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	from, _ := validator.IsValidDate(req.From)
	to, _ := validator.IsValidDate(req.To)
	if to.Before(from) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	request := leave.LeaveRequest{
		EmployeeID:  employeeID,
		CompanyID:   companyID,
		LeaveType:   req.LeaveType,
		From:        from,
		To:          to,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
		SubmittedAt: s.now(),
	}

	created, err := s.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return mapRequestToResponse(created), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, id, leave.StatusApproved, nil)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return s.decide(ctx, req.ID, leave.StatusRejected, &req.Reason)
}

// decide applies an admin decision to a pending request. Terminal requests
// are immutable.
func (s *LeaveServiceImpl) decide(ctx context.Context, id string, status leave.LeaveRequestStatus, reason *string) (leave.LeaveRequestResponse, error) {
	companyID, _, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.Status.Terminal() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := s.now()
	request.Status = status
	request.DecidedBy = &userID
	request.DecidedAt = &now
	request.RejectionReason = reason

	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	companyID, employeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if employeeID == "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	// Employees may only withdraw their own requests.
	if request.EmployeeID != employeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	if request.Status.Terminal() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	request.Status = leave.StatusCancelled

	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequestResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapRequestToResponse(request))
	}
	return responses, nil
}

// GetMyBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyBalance(ctx context.Context) (leave.BalanceResponse, error) {
	companyID, employeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if employeeID == "" {
		return leave.BalanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	requests, err := s.LeaveRequestRepository.ListApprovedByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to list approved leave requests: %w", err)
	}

	asOf := s.now()
	window := s.accountant.Window(asOf)
	account := s.accountant.Account(requests, asOf)

	return leave.BalanceResponse{
		EmployeeID:  employeeID,
		WindowStart: window.Start.Format("2006-01-02"),
		WindowEnd:   window.End.Format("2006-01-02"),
		Earned:      account.Earned,
		Used:        account.Used,
		Pending:     account.Pending,
		Extra:       account.Extra,
	}, nil
}

func mapRequestToResponse(request leave.LeaveRequest) leave.LeaveRequestResponse {
	response := leave.LeaveRequestResponse{
		ID:              request.ID,
		EmployeeID:      request.EmployeeID,
		LeaveType:       request.LeaveType,
		From:            request.From.Format("2006-01-02"),
		To:              request.To.Format("2006-01-02"),
		Days:            request.Days(),
		Reason:          request.Reason,
		Status:          string(request.Status),
		RejectionReason: request.RejectionReason,
	}
	if request.EmployeeName != nil {
		response.EmployeeName = *request.EmployeeName
	}
	return response
}
