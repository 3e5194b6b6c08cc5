package payroll

import (
	"context"
)

// PayrollService defines business logic for payroll settings and batch
// payroll generation.
type PayrollService interface {
	// GeneratePayroll computes line items for the company's active employees
	// over a date range from a single snapshot of punches, leaves and shift
	// policies. Per-employee failures are collected in the report instead of
	// aborting the batch.
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (RunReportResponse, error)

	GetSettings(ctx context.Context) (SettingsResponse, error)

	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
