package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/employee"
	"github.com/attendly/attendly-backend-go/internal/domain/leave"
	"github.com/attendly/attendly-backend-go/internal/domain/payroll"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

type stubPayrollRepo struct {
	settings *payroll.Settings
}

func (r *stubPayrollRepo) GetSettings(ctx context.Context, companyID string) (payroll.Settings, error) {
	if r.settings == nil {
		return payroll.Settings{}, payroll.ErrPayrollSettingsNotFound
	}
	return *r.settings, nil
}

func (r *stubPayrollRepo) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	r.settings = &settings
	return settings, nil
}

type stubEmployeeRepo struct {
	employees []employee.Employee
}

func (r *stubEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return r.employees, nil
}

func (r *stubEmployeeRepo) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	return []string{"company-1"}, nil
}

type stubPunchRepo struct {
	records map[string][]attendance.PunchRecord
}

func (r *stubPunchRepo) Create(ctx context.Context, record attendance.PunchRecord) (attendance.PunchRecord, error) {
	return record, nil
}

func (r *stubPunchRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.PunchRecord, error) {
	return attendance.PunchRecord{}, attendance.ErrPunchRecordNotFound
}

func (r *stubPunchRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.PunchRecord, error) {
	return nil, nil
}

func (r *stubPunchRepo) Update(ctx context.Context, record attendance.PunchRecord) error {
	return nil
}

func (r *stubPunchRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.PunchRecord, error) {
	return r.records[employeeID], nil
}

func (r *stubPunchRepo) GetOpenSession(ctx context.Context, employeeID string, companyID string) (attendance.PunchRecord, error) {
	return attendance.PunchRecord{}, attendance.ErrPunchRecordNotFound
}

func (r *stubPunchRepo) GetStaleOpenSessions(ctx context.Context, olderThanDays int) ([]attendance.PunchRecord, error) {
	return nil, nil
}

func (r *stubPunchRepo) BulkCreateAbsences(ctx context.Context, records []attendance.PunchRecord) error {
	return nil
}

type stubLeaveRepo struct {
	approved map[string][]leave.LeaveRequest
}

func (r *stubLeaveRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	return request, nil
}

func (r *stubLeaveRepo) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *stubLeaveRepo) Update(ctx context.Context, request leave.LeaveRequest) error {
	return nil
}

func (r *stubLeaveRepo) List(ctx context.Context, filter leave.LeaveFilter, companyID string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (r *stubLeaveRepo) ListApprovedByEmployee(ctx context.Context, employeeID string, companyID string) ([]leave.LeaveRequest, error) {
	return r.approved[employeeID], nil
}

type stubResolver struct {
	policy shift.Policy
}

func (r *stubResolver) ResolveForCompany(ctx context.Context, employeeID string, companyID string) (shift.Policy, error) {
	return r.policy, nil
}

func adminContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": companyID,
		"role":       "admin",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func utcPolicy() shift.Policy {
	return shift.Policy{
		CompanyID:        "company-1",
		StartTime:        "09:00",
		EndTime:          "18:00",
		TimeZone:         "UTC",
		LateGraceMinutes: 15,
		FullDayHours:     9,
		HalfDayHours:     4.5,
		WeeklyOffDays:    shift.WeekdaySet{int(time.Sunday)},
		AutoExtend:       true,
	}
}

func closedRecord(employeeID string, date time.Time, hours float64) attendance.PunchRecord {
	in := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return attendance.PunchRecord{
		ID:         "rec-" + employeeID + date.Format("0102"),
		EmployeeID: employeeID,
		CompanyID:  "company-1",
		Date:       date,
		PunchIn:    &in,
		PunchOut:   &out,
	}
}

func monthOfRecords(employeeID string, fullDays, halfDays int) []attendance.PunchRecord {
	records := make([]attendance.PunchRecord, 0, fullDays+halfDays)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < fullDays; i++ {
		records = append(records, closedRecord(employeeID, day, 9))
		day = day.AddDate(0, 0, 1)
	}
	for i := 0; i < halfDays; i++ {
		records = append(records, closedRecord(employeeID, day, 5))
		day = day.AddDate(0, 0, 1)
	}
	return records
}

func salary(amount int64) *decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return &d
}

func newTestService(payrollRepo *stubPayrollRepo, employeeRepo *stubEmployeeRepo, punchRepo *stubPunchRepo, leaveRepo *stubLeaveRepo) payroll.PayrollService {
	return NewPayrollService(payrollRepo, employeeRepo, punchRepo, leaveRepo,
		&stubResolver{policy: utcPolicy()},
		Defaults{MonthlyWorkingDays: 26, LeaveYearStartMonth: time.November})
}

func TestGeneratePayroll_FullRun(t *testing.T) {
	employeeRepo := &stubEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", FullName: "Ayu Lestari", BaseSalary: salary(26000)},
	}}
	punchRepo := &stubPunchRepo{records: map[string][]attendance.PunchRecord{
		"emp-1": monthOfRecords("emp-1", 20, 2),
	}}
	leaveRepo := &stubLeaveRepo{approved: map[string][]leave.LeaveRequest{
		"emp-1": {
			{EmployeeID: "emp-1", Status: leave.StatusApproved,
				From: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
			{EmployeeID: "emp-1", Status: leave.StatusApproved,
				From: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		},
	}}
	service := newTestService(&stubPayrollRepo{}, employeeRepo, punchRepo, leaveRepo)

	report, err := service.GeneratePayroll(adminContext(t, "company-1"), payroll.GeneratePayrollRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})

	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Empty(t, report.Failures)
	assert.NotEmpty(t, report.RunID)

	item := report.Items[0]
	assert.Equal(t, 20, item.FullDays)
	assert.Equal(t, 2, item.HalfDays)
	assert.Equal(t, 1, item.ExtraLeaveDays)
	assert.True(t, item.PerDaySalary.Equal(decimal.NewFromInt(1000)), "per day = %s", item.PerDaySalary)
	assert.True(t, item.WorkedSalary.Equal(decimal.NewFromInt(21000)), "worked = %s", item.WorkedSalary)
	assert.True(t, item.NetPayableSalary.Equal(decimal.NewFromInt(20000)), "net = %s", item.NetPayableSalary)
}

func TestGeneratePayroll_CollectsFailuresWithoutAborting(t *testing.T) {
	corrupt := closedRecord("emp-2", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 9)
	corrupt.PunchIn, corrupt.PunchOut = corrupt.PunchOut, corrupt.PunchIn

	employeeRepo := &stubEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", FullName: "Ayu Lestari", BaseSalary: salary(26000)},
		{ID: "emp-2", CompanyID: "company-1", FullName: "Budi Santoso", BaseSalary: salary(26000)},
		{ID: "emp-3", CompanyID: "company-1", FullName: "Citra Dewi"},
	}}
	punchRepo := &stubPunchRepo{records: map[string][]attendance.PunchRecord{
		"emp-1": monthOfRecords("emp-1", 10, 0),
		"emp-2": {corrupt},
	}}
	service := newTestService(&stubPayrollRepo{}, employeeRepo, punchRepo, &stubLeaveRepo{})

	report, err := service.GeneratePayroll(adminContext(t, "company-1"), payroll.GeneratePayrollRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})

	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "emp-1", report.Items[0].EmployeeID)

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "emp-2", report.Failures[0].EmployeeID)
	assert.Contains(t, report.Failures[0].Reason, "inconsistent")
	assert.Equal(t, "emp-3", report.Failures[1].EmployeeID)
	assert.Contains(t, report.Failures[1].Reason, "base salary")
}

func TestGeneratePayroll_BrokenSettingsFailEveryEmployee(t *testing.T) {
	employeeRepo := &stubEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", FullName: "Ayu Lestari", BaseSalary: salary(26000)},
	}}
	payrollRepo := &stubPayrollRepo{settings: &payroll.Settings{
		CompanyID:           "company-1",
		MonthlyWorkingDays:  0,
		LeaveYearStartMonth: time.November,
	}}
	service := newTestService(payrollRepo, employeeRepo, &stubPunchRepo{}, &stubLeaveRepo{})

	report, err := service.GeneratePayroll(adminContext(t, "company-1"), payroll.GeneratePayrollRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})

	require.NoError(t, err)
	assert.Empty(t, report.Items)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Reason, "working days")
}

func TestGeneratePayroll_FiltersRequestedEmployees(t *testing.T) {
	employeeRepo := &stubEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", BaseSalary: salary(26000)},
		{ID: "emp-2", CompanyID: "company-1", BaseSalary: salary(26000)},
	}}
	service := newTestService(&stubPayrollRepo{}, employeeRepo, &stubPunchRepo{}, &stubLeaveRepo{})

	report, err := service.GeneratePayroll(adminContext(t, "company-1"), payroll.GeneratePayrollRequest{
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-30",
		EmployeeIDs: []string{"emp-2"},
	})

	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "emp-2", report.Items[0].EmployeeID)
}

func TestUpdateSettings_AppliesPartialUpdate(t *testing.T) {
	service := newTestService(&stubPayrollRepo{}, &stubEmployeeRepo{}, &stubPunchRepo{}, &stubLeaveRepo{})
	ctx := adminContext(t, "company-1")

	days := 22
	updated, err := service.UpdateSettings(ctx, payroll.UpdateSettingsRequest{MonthlyWorkingDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 22, updated.MonthlyWorkingDays)
	// Untouched fields keep their defaults.
	assert.Equal(t, int(time.November), updated.LeaveYearStartMonth)

	current, err := service.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22, current.MonthlyWorkingDays)
}
