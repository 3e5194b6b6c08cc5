package payroll

import (
	"context"
)

// PayrollRepository defines data access methods for payroll configuration.
type PayrollRepository interface {
	// GetSettings returns the company's payroll settings, or
	// ErrPayrollSettingsNotFound when none are configured yet.
	GetSettings(ctx context.Context, companyID string) (Settings, error)

	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)
}
