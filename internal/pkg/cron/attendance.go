package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/employee"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

// ShiftResolver resolves shift policies outside a request scope.
type ShiftResolver interface {
	ResolveForCompany(ctx context.Context, employeeID string, companyID string) (shift.Policy, error)
}

type AttendanceJobs struct {
	punchRepo    attendance.PunchRecordRepository
	employeeRepo employee.EmployeeRepository
	resolver     ShiftResolver
}

func NewAttendanceJobs(
	punchRepo attendance.PunchRecordRepository,
	employeeRepo employee.EmployeeRepository,
	resolver ShiftResolver,
) *AttendanceJobs {
	return &AttendanceJobs{
		punchRepo:    punchRepo,
		employeeRepo: employeeRepo,
		resolver:     resolver,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", 1*time.Hour, j.AutoCloseStaleSessions)
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// AutoCloseStaleSessions closes open sessions left over from previous days
// at the shift end of their day, flagged as an administrative override so
// the punch-out is distinguishable from a real one.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	slog.Info("Cron: Starting auto-close stale sessions job")

	sessions, err := j.punchRepo.GetStaleOpenSessions(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to list stale open sessions: %w", err)
	}

	closed := 0
	for _, record := range sessions {
		policy, err := j.resolver.ResolveForCompany(ctx, record.EmployeeID, record.CompanyID)
		if err != nil {
			slog.Error("Cron: Failed to resolve shift policy", "employee_id", record.EmployeeID, "error", err)
			continue
		}

		punchOut := policy.EndOn(record.Date)
		if record.PunchIn != nil && !punchOut.After(*record.PunchIn) {
			// Punched in after the shift end; leave the session for a
			// manual correction.
			slog.Warn("Cron: Skipping session punched in after shift end",
				"employee_id", record.EmployeeID, "date", record.Date.Format("2006-01-02"))
			continue
		}

		record.PunchOut = &punchOut
		record.AdminOverride = true
		if err := j.punchRepo.Update(ctx, record); err != nil {
			slog.Error("Cron: Failed to close stale session", "record_id", record.ID, "error", err)
			continue
		}
		closed++
	}

	slog.Info("Cron: Auto-close stale sessions job completed", "closed", closed, "total", len(sessions))
	return nil
}

// MarkAbsentEmployees seeds punch-less records for employees who missed a
// scheduled working day, so history and payroll see the absence without
// deriving it from a gap.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job")

	companyIDs, err := j.employeeRepo.ListActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	marked := 0
	for _, companyID := range companyIDs {
		employees, err := j.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to list employees", "company_id", companyID, "error", err)
			continue
		}

		var absences []attendance.PunchRecord
		for _, emp := range employees {
			policy, err := j.resolver.ResolveForCompany(ctx, emp.ID, companyID)
			if err != nil {
				slog.Error("Cron: Failed to resolve shift policy", "employee_id", emp.ID, "error", err)
				continue
			}

			yesterday := localYesterday(policy)
			if policy.IsWeeklyOff(yesterday) {
				continue
			}
			if emp.HireDate.After(yesterday) {
				continue
			}

			absences = append(absences, attendance.PunchRecord{
				EmployeeID: emp.ID,
				CompanyID:  companyID,
				Date:       yesterday,
			})
		}

		// Employees who did punch are skipped by the insert's conflict
		// handling.
		if err := j.punchRepo.BulkCreateAbsences(ctx, absences); err != nil {
			slog.Error("Cron: Failed to create absence records", "company_id", companyID, "error", err)
			continue
		}
		marked += len(absences)
	}

	slog.Info("Cron: Mark absent employees job completed", "candidates", marked)
	return nil
}

func localYesterday(policy shift.Policy) time.Time {
	now := time.Now().In(policy.Location())
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, y.Location())
}
