package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/shift"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
)

type shiftPolicyRepository struct {
	db *database.DB
}

func NewShiftPolicyRepository(db *database.DB) shift.ShiftPolicyRepository {
	return &shiftPolicyRepository{db: db}
}

const shiftPolicyColumns = `
	id, company_id, employee_id, start_time, end_time, time_zone,
	late_grace_minutes, full_day_hours, half_day_hours, weekly_off_days,
	auto_extend, office_latitude, office_longitude, radius_meters,
	created_at, updated_at
`

// GetCurrentByEmployeeID implements shift.ShiftPolicyRepository. When an
// employee somehow carries more than one policy, the most recently updated
// row wins.
func (r *shiftPolicyRepository) GetCurrentByEmployeeID(ctx context.Context, employeeID string, companyID string) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftPolicyColumns + `
		FROM shift_policies
		WHERE employee_id = $1
		  AND company_id = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	policy, err := scanShiftPolicy(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Policy{}, shift.ErrShiftPolicyNotFound
		}
		return shift.Policy{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	return policy, nil
}

// Upsert implements shift.ShiftPolicyRepository.
func (r *shiftPolicyRepository) Upsert(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_policies (
			company_id, employee_id, start_time, end_time, time_zone,
			late_grace_minutes, full_day_hours, half_day_hours, weekly_off_days,
			auto_extend, office_latitude, office_longitude, radius_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (company_id, employee_id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			time_zone = EXCLUDED.time_zone,
			late_grace_minutes = EXCLUDED.late_grace_minutes,
			full_day_hours = EXCLUDED.full_day_hours,
			half_day_hours = EXCLUDED.half_day_hours,
			weekly_off_days = EXCLUDED.weekly_off_days,
			auto_extend = EXCLUDED.auto_extend,
			office_latitude = EXCLUDED.office_latitude,
			office_longitude = EXCLUDED.office_longitude,
			radius_meters = EXCLUDED.radius_meters,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		policy.CompanyID,
		policy.EmployeeID,
		policy.StartTime,
		policy.EndTime,
		policy.TimeZone,
		policy.LateGraceMinutes,
		policy.FullDayHours,
		policy.HalfDayHours,
		[]int(policy.WeeklyOffDays),
		policy.AutoExtend,
		policy.OfficeLatitude,
		policy.OfficeLongitude,
		policy.RadiusMeters,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)

	if err != nil {
		return shift.Policy{}, fmt.Errorf("failed to upsert shift policy: %w", err)
	}

	return policy, nil
}

// ListByCompanyID implements shift.ShiftPolicyRepository.
func (r *shiftPolicyRepository) ListByCompanyID(ctx context.Context, companyID string) ([]shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftPolicyColumns + `
		FROM shift_policies
		WHERE company_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	var policies []shift.Policy
	for rows.Next() {
		policy, err := scanShiftPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift policy: %w", err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift policies: %w", err)
	}

	return policies, nil
}

// DeleteByEmployeeID implements shift.ShiftPolicyRepository.
func (r *shiftPolicyRepository) DeleteByEmployeeID(ctx context.Context, employeeID string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM shift_policies
		WHERE employee_id = $1
		  AND company_id = $2
	`

	tag, err := q.Exec(ctx, query, employeeID, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete shift policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftPolicyNotFound
	}

	return nil
}

func scanShiftPolicy(row pgx.Row) (shift.Policy, error) {
	var policy shift.Policy
	var weeklyOffDays []int
	err := row.Scan(
		&policy.ID, &policy.CompanyID, &policy.EmployeeID,
		&policy.StartTime, &policy.EndTime, &policy.TimeZone,
		&policy.LateGraceMinutes, &policy.FullDayHours, &policy.HalfDayHours, &weeklyOffDays,
		&policy.AutoExtend, &policy.OfficeLatitude, &policy.OfficeLongitude, &policy.RadiusMeters,
		&policy.CreatedAt, &policy.UpdatedAt,
	)
	if err != nil {
		return shift.Policy{}, err
	}
	policy.WeeklyOffDays = shift.WeekdaySet(weeklyOffDays)
	return policy, nil
}
