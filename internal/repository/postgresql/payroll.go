package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/payroll"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// GetSettings implements payroll.PayrollRepository.
func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, monthly_working_days, leave_year_start_month, created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var settings payroll.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&settings.ID, &settings.CompanyID,
		&settings.MonthlyWorkingDays, &settings.LeaveYearStartMonth,
		&settings.CreatedAt, &settings.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Settings{}, payroll.ErrPayrollSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return settings, nil
}

// UpsertSettings implements payroll.PayrollRepository.
func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (company_id, monthly_working_days, leave_year_start_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id) DO UPDATE SET
			monthly_working_days = EXCLUDED.monthly_working_days,
			leave_year_start_month = EXCLUDED.leave_year_start_month,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		settings.CompanyID,
		settings.MonthlyWorkingDays,
		int(settings.LeaveYearStartMonth),
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)

	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return settings, nil
}
