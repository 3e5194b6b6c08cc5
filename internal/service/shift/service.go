package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

// Defaults is the system fallback shift configuration applied to employees
// without a configured policy.
type Defaults struct {
	StartTime        string
	EndTime          string
	TimeZone         string
	LateGraceMinutes int
	FullDayHours     float64
	HalfDayHours     float64
}

// DefaultPolicy builds the fallback policy for a company. Weekly off is
// Sunday and hours keep accruing past the shift end.
func DefaultPolicy(companyID string, d Defaults) shift.Policy {
	return shift.Policy{
		CompanyID:        companyID,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		TimeZone:         d.TimeZone,
		LateGraceMinutes: d.LateGraceMinutes,
		FullDayHours:     d.FullDayHours,
		HalfDayHours:     d.HalfDayHours,
		WeeklyOffDays:    shift.WeekdaySet{int(time.Sunday)},
		AutoExtend:       true,
	}
}

type ShiftServiceImpl struct {
	shift.ShiftPolicyRepository
	defaults Defaults
}

func NewShiftService(repo shift.ShiftPolicyRepository, defaults Defaults) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftPolicyRepository: repo,
		defaults:              defaults,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// Resolve implements shift.ShiftService. Policies are not versioned by
// date: the date argument only exists so a future validity-window scheme
// can slot in, and resolution today is "current policy only". A missing
// policy is a normal case answered with the default, never an error.
func (s *ShiftServiceImpl) Resolve(ctx context.Context, employeeID string, date time.Time) (shift.Policy, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return shift.Policy{}, err
	}
	return s.resolve(ctx, employeeID, companyID)
}

func (s *ShiftServiceImpl) resolve(ctx context.Context, employeeID string, companyID string) (shift.Policy, error) {
	policy, err := s.ShiftPolicyRepository.GetCurrentByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftPolicyNotFound) || errors.Is(err, pgx.ErrNoRows) {
			return DefaultPolicy(companyID, s.defaults), nil
		}
		return shift.Policy{}, fmt.Errorf("failed to get shift policy: %w", err)
	}
	return policy, nil
}

// ResolveForCompany is the claims-free variant used by the payroll batch
// run and the cron jobs, which already know the company scope.
func (s *ShiftServiceImpl) ResolveForCompany(ctx context.Context, employeeID string, companyID string) (shift.Policy, error) {
	return s.resolve(ctx, employeeID, companyID)
}

// Upsert implements shift.ShiftService.
func (s *ShiftServiceImpl) Upsert(ctx context.Context, req shift.UpsertShiftPolicyRequest) (shift.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.PolicyResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = s.defaults.TimeZone
	}
	autoExtend := true
	if req.AutoExtend != nil {
		autoExtend = *req.AutoExtend
	}

	policy := shift.Policy{
		CompanyID:        companyID,
		EmployeeID:       &req.EmployeeID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TimeZone:         timeZone,
		LateGraceMinutes: req.LateGraceMinutes,
		FullDayHours:     req.FullDayHours,
		HalfDayHours:     req.HalfDayHours,
		WeeklyOffDays:    shift.WeekdaySet(req.WeeklyOffDays),
		AutoExtend:       autoExtend,
		OfficeLatitude:   req.OfficeLatitude,
		OfficeLongitude:  req.OfficeLongitude,
		RadiusMeters:     req.RadiusMeters,
	}

	saved, err := s.ShiftPolicyRepository.Upsert(ctx, policy)
	if err != nil {
		return shift.PolicyResponse{}, fmt.Errorf("failed to upsert shift policy: %w", err)
	}

	return mapPolicyToResponse(saved, false), nil
}

// GetByEmployee implements shift.ShiftService.
func (s *ShiftServiceImpl) GetByEmployee(ctx context.Context, employeeID string) (shift.PolicyResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	policy, err := s.ShiftPolicyRepository.GetCurrentByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftPolicyNotFound) || errors.Is(err, pgx.ErrNoRows) {
			return mapPolicyToResponse(DefaultPolicy(companyID, s.defaults), true), nil
		}
		return shift.PolicyResponse{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	return mapPolicyToResponse(policy, false), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context) ([]shift.PolicyResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	policies, err := s.ShiftPolicyRepository.ListByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}

	responses := make([]shift.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		responses = append(responses, mapPolicyToResponse(p, false))
	}
	return responses, nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, employeeID string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.ShiftPolicyRepository.DeleteByEmployeeID(ctx, employeeID, companyID); err != nil {
		if errors.Is(err, shift.ErrShiftPolicyNotFound) {
			return shift.ErrShiftPolicyNotFound
		}
		return fmt.Errorf("failed to delete shift policy: %w", err)
	}
	return nil
}

func mapPolicyToResponse(p shift.Policy, isDefault bool) shift.PolicyResponse {
	return shift.PolicyResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		TimeZone:         p.TimeZone,
		LateGraceMinutes: p.LateGraceMinutes,
		FullDayHours:     p.FullDayHours,
		HalfDayHours:     p.HalfDayHours,
		WeeklyOffDays:    []int(p.WeeklyOffDays),
		AutoExtend:       p.AutoExtend,
		OfficeLatitude:   p.OfficeLatitude,
		OfficeLongitude:  p.OfficeLongitude,
		RadiusMeters:     p.RadiusMeters,
		IsDefault:        isDefault,
	}
}
