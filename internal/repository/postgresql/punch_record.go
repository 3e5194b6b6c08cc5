package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
)

type punchRecordRepository struct {
	db *database.DB
}

func NewPunchRecordRepository(db *database.DB) attendance.PunchRecordRepository {
	return &punchRecordRepository{db: db}
}

const punchRecordColumns = `
	id, employee_id, company_id, date, punch_in, punch_out,
	punch_in_latitude, punch_in_longitude, punch_out_latitude, punch_out_longitude,
	idle_intervals, admin_override, created_at, updated_at
`

// Create implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) Create(ctx context.Context, record attendance.PunchRecord) (attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_records (
			employee_id, company_id, date, punch_in, punch_out,
			punch_in_latitude, punch_in_longitude, punch_out_latitude, punch_out_longitude,
			idle_intervals, admin_override
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.CompanyID,
		record.Date,
		record.PunchIn,
		record.PunchOut,
		record.PunchInLatitude,
		record.PunchInLongitude,
		record.PunchOutLatitude,
		record.PunchOutLongitude,
		record.IdleIntervals,
		record.AdminOverride,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.PunchRecord{}, fmt.Errorf("failed to create punch record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchRecordColumns + `
		FROM punch_records
		WHERE id = $1
		  AND company_id = $2
	`

	record, err := scanPunchRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.PunchRecord{}, attendance.ErrPunchRecordNotFound
		}
		return attendance.PunchRecord{}, fmt.Errorf("failed to get punch record: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchRecordColumns + `
		FROM punch_records
		WHERE employee_id = $1
		  AND date = $2
		  AND company_id = $3
		LIMIT 1
	`

	record, err := scanPunchRecord(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get punch record: %w", err)
	}

	return &record, nil
}

// Update implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) Update(ctx context.Context, record attendance.PunchRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_records SET
			punch_in = $1,
			punch_out = $2,
			punch_in_latitude = $3,
			punch_in_longitude = $4,
			punch_out_latitude = $5,
			punch_out_longitude = $6,
			idle_intervals = $7,
			admin_override = $8,
			updated_at = NOW()
		WHERE id = $9
		  AND company_id = $10
	`

	tag, err := q.Exec(ctx, query,
		record.PunchIn,
		record.PunchOut,
		record.PunchInLatitude,
		record.PunchInLongitude,
		record.PunchOutLatitude,
		record.PunchOutLongitude,
		record.IdleIntervals,
		record.AdminOverride,
		record.ID,
		record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update punch record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrPunchRecordNotFound
	}

	return nil
}

// ListByEmployeeAndRange implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchRecordColumns + `
		FROM punch_records
		WHERE employee_id = $1
		  AND company_id = $2
		  AND date BETWEEN $3 AND $4
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch records: %w", err)
	}
	defer rows.Close()

	return collectPunchRecords(rows)
}

// GetOpenSession implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) GetOpenSession(ctx context.Context, employeeID string, companyID string) (attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchRecordColumns + `
		FROM punch_records
		WHERE employee_id = $1
		  AND company_id = $2
		  AND punch_in IS NOT NULL
		  AND punch_out IS NULL
		ORDER BY punch_in DESC
		LIMIT 1
	`

	record, err := scanPunchRecord(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.PunchRecord{}, attendance.ErrPunchRecordNotFound
		}
		return attendance.PunchRecord{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return record, nil
}

// GetStaleOpenSessions implements attendance.PunchRecordRepository.
func (r *punchRecordRepository) GetStaleOpenSessions(ctx context.Context, olderThanDays int) ([]attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchRecordColumns + `
		FROM punch_records
		WHERE punch_in IS NOT NULL
		  AND punch_out IS NULL
		  AND date < CURRENT_DATE - $1::int
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, olderThanDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open sessions: %w", err)
	}
	defer rows.Close()

	return collectPunchRecords(rows)
}

// BulkCreateAbsences implements attendance.PunchRecordRepository. Conflicts
// mean the employee punched in after all; those rows are left alone.
func (r *punchRecordRepository) BulkCreateAbsences(ctx context.Context, records []attendance.PunchRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO punch_records (employee_id, company_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(query, record.EmployeeID, record.CompanyID, record.Date)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to bulk create absences: %w", err)
		}
	}

	return nil
}

func scanPunchRecord(row pgx.Row) (attendance.PunchRecord, error) {
	var record attendance.PunchRecord
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.CompanyID, &record.Date,
		&record.PunchIn, &record.PunchOut,
		&record.PunchInLatitude, &record.PunchInLongitude,
		&record.PunchOutLatitude, &record.PunchOutLongitude,
		&record.IdleIntervals, &record.AdminOverride,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return attendance.PunchRecord{}, err
	}
	return record, nil
}

func collectPunchRecords(rows pgx.Rows) ([]attendance.PunchRecord, error) {
	var records []attendance.PunchRecord
	for rows.Next() {
		record, err := scanPunchRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch records: %w", err)
	}
	return records, nil
}
