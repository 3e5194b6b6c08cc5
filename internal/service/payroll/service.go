package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/employee"
	"github.com/attendly/attendly-backend-go/internal/domain/leave"
	"github.com/attendly/attendly-backend-go/internal/domain/payroll"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
	attendanceservice "github.com/attendly/attendly-backend-go/internal/service/attendance"
	leaveservice "github.com/attendly/attendly-backend-go/internal/service/leave"
)

// ShiftResolver resolves an employee's shift policy without request-scoped
// claims; the batch run already knows the company it works for.
type ShiftResolver interface {
	ResolveForCompany(ctx context.Context, employeeID string, companyID string) (shift.Policy, error)
}

// Defaults is the fallback payroll configuration for companies that have
// not saved settings yet.
type Defaults struct {
	MonthlyWorkingDays  int
	LeaveYearStartMonth time.Month
}

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	punchRepo    attendance.PunchRecordRepository
	leaveRepo    leave.LeaveRequestRepository
	resolver     ShiftResolver

	classifier *attendanceservice.Classifier
	aggregator *Aggregator
	defaults   Defaults
	now        func() time.Time
}

func NewPayrollService(
	repo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	punchRepo attendance.PunchRecordRepository,
	leaveRepo leave.LeaveRequestRepository,
	resolver ShiftResolver,
	defaults Defaults,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository: repo,
		employeeRepo:      employeeRepo,
		punchRepo:         punchRepo,
		leaveRepo:         leaveRepo,
		resolver:          resolver,
		classifier:        attendanceservice.NewClassifier(),
		aggregator:        NewAggregator(),
		defaults:          defaults,
		now:               time.Now,
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

// GeneratePayroll implements payroll.PayrollService.
//
// The run reads one snapshot of punches, leaves and shift policies and
// folds them per employee. A malformed punch record or a broken
// configuration fails that employee's line only; the rest of the batch
// completes.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.RunReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunReportResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}

	settings, err := s.settingsOrDefaults(ctx, companyID)
	if err != nil {
		return payroll.RunReportResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.StartDate)
	periodEnd, _ := time.Parse("2006-01-02", req.EndDate)

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.RunReportResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	employees = filterEmployees(employees, req.EmployeeIDs)

	accountant := leaveservice.NewYearAccountant(settings.LeaveYearStartMonth)
	now := s.now()

	report := payroll.RunReport{
		RunID:       uuid.NewString(),
		CompanyID:   companyID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedAt: now,
	}

	for _, emp := range employees {
		item, failure, err := s.buildLineItem(ctx, emp, companyID, settings, accountant, periodStart, periodEnd, now)
		if err != nil {
			return payroll.RunReportResponse{}, err
		}
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			continue
		}
		report.Items = append(report.Items, item)
	}

	return mapReportToResponse(report), nil
}

// buildLineItem computes one employee's line. The failure return covers
// conditions fatal to this employee only; the error return covers
// infrastructure problems fatal to the run.
func (s *PayrollServiceImpl) buildLineItem(
	ctx context.Context,
	emp employee.Employee,
	companyID string,
	settings payroll.Settings,
	accountant *leaveservice.YearAccountant,
	periodStart, periodEnd time.Time,
	now time.Time,
) (payroll.LineItem, *payroll.LineItemFailure, error) {
	fail := func(reason string) (payroll.LineItem, *payroll.LineItemFailure, error) {
		return payroll.LineItem{}, &payroll.LineItemFailure{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Reason:       reason,
		}, nil
	}

	if emp.BaseSalary == nil {
		return fail("no base salary configured")
	}

	policy, err := s.resolver.ResolveForCompany(ctx, emp.ID, companyID)
	if err != nil {
		return payroll.LineItem{}, nil, fmt.Errorf("failed to resolve shift policy for employee %s: %w", emp.ID, err)
	}

	records, err := s.punchRepo.ListByEmployeeAndRange(ctx, emp.ID, periodStart, periodEnd, companyID)
	if err != nil {
		return payroll.LineItem{}, nil, fmt.Errorf("failed to list punch records for employee %s: %w", emp.ID, err)
	}

	fullDays, halfDays := 0, 0
	for _, record := range records {
		result, err := s.classifier.Classify(record, policy, now)
		if err != nil {
			var integrityErr *attendance.DataIntegrityError
			if errors.As(err, &integrityErr) {
				return fail(integrityErr.Error())
			}
			return payroll.LineItem{}, nil, err
		}
		switch result.WorkedCategory {
		case attendance.CategoryFullDay:
			fullDays++
		case attendance.CategoryHalfDay:
			halfDays++
		}
	}

	leaves, err := s.leaveRepo.ListApprovedByEmployee(ctx, emp.ID, companyID)
	if err != nil {
		return payroll.LineItem{}, nil, fmt.Errorf("failed to list leave requests for employee %s: %w", emp.ID, err)
	}
	account := accountant.Account(leaves, periodEnd)

	item, err := s.aggregator.LineItem(emp.ID, emp.FullName, *emp.BaseSalary,
		settings.MonthlyWorkingDays, fullDays, halfDays, account.Extra)
	if err != nil {
		var configErr *payroll.ConfigurationError
		if errors.As(err, &configErr) {
			return fail(configErr.Error())
		}
		return payroll.LineItem{}, nil, err
	}

	return item, nil, nil
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.settingsOrDefaults(ctx, companyID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	return mapSettingsToResponse(settings), nil
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.settingsOrDefaults(ctx, companyID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	if req.MonthlyWorkingDays != nil {
		settings.MonthlyWorkingDays = *req.MonthlyWorkingDays
	}
	if req.LeaveYearStartMonth != nil {
		settings.LeaveYearStartMonth = time.Month(*req.LeaveYearStartMonth)
	}

	saved, err := s.PayrollRepository.UpsertSettings(ctx, settings)
	if err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return mapSettingsToResponse(saved), nil
}

// settingsOrDefaults treats missing settings as a normal case answered
// with the system defaults.
func (s *PayrollServiceImpl) settingsOrDefaults(ctx context.Context, companyID string) (payroll.Settings, error) {
	settings, err := s.PayrollRepository.GetSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollSettingsNotFound) {
			return payroll.Settings{
				CompanyID:           companyID,
				MonthlyWorkingDays:  s.defaults.MonthlyWorkingDays,
				LeaveYearStartMonth: s.defaults.LeaveYearStartMonth,
			}, nil
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return settings, nil
}

func filterEmployees(employees []employee.Employee, ids []string) []employee.Employee {
	if len(ids) == 0 {
		return employees
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	filtered := make([]employee.Employee, 0, len(ids))
	for _, emp := range employees {
		if _, ok := wanted[emp.ID]; ok {
			filtered = append(filtered, emp)
		}
	}
	return filtered
}

func mapSettingsToResponse(settings payroll.Settings) payroll.SettingsResponse {
	return payroll.SettingsResponse{
		CompanyID:           settings.CompanyID,
		MonthlyWorkingDays:  settings.MonthlyWorkingDays,
		LeaveYearStartMonth: int(settings.LeaveYearStartMonth),
	}
}

func mapReportToResponse(report payroll.RunReport) payroll.RunReportResponse {
	response := payroll.RunReportResponse{
		RunID:       report.RunID,
		PeriodStart: report.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   report.PeriodEnd.Format("2006-01-02"),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Items:       make([]payroll.LineItemResponse, 0, len(report.Items)),
	}
	for _, item := range report.Items {
		response.Items = append(response.Items, payroll.LineItemResponse{
			EmployeeID:         item.EmployeeID,
			EmployeeName:       item.EmployeeName,
			BaseSalary:         item.BaseSalary,
			PerDaySalary:       item.PerDaySalary,
			FullDays:           item.FullDays,
			HalfDays:           item.HalfDays,
			TotalWorkedDays:    item.TotalWorkedDays,
			WorkedSalary:       item.WorkedSalary,
			ExtraLeaveDays:     item.ExtraLeaveDays,
			LossOfPayDeduction: item.LossOfPayDeduction,
			NetPayableSalary:   item.NetPayableSalary,
		})
	}
	for _, failure := range report.Failures {
		response.Failures = append(response.Failures, payroll.LineItemFailureResponse{
			EmployeeID:   failure.EmployeeID,
			EmployeeName: failure.EmployeeName,
			Reason:       failure.Reason,
		})
	}
	return response
}
