package attendance

import (
	"context"
	"time"
)

// PunchRecordRepository defines data access methods for punch records.
// All methods include companyID to keep tenants isolated.
type PunchRecordRepository interface {
	Create(ctx context.Context, record PunchRecord) (PunchRecord, error)

	GetByID(ctx context.Context, id string, companyID string) (PunchRecord, error)

	// GetByEmployeeAndDate returns the record for one employee-day, or nil
	// when the employee has no record on that date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*PunchRecord, error)

	Update(ctx context.Context, record PunchRecord) error

	// ListByEmployeeAndRange returns the employee's records with date in
	// [from, to], ordered by date.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]PunchRecord, error)

	// GetOpenSession returns the employee's most recent record with a
	// punch-in but no punch-out.
	GetOpenSession(ctx context.Context, employeeID string, companyID string) (PunchRecord, error)

	// GetStaleOpenSessions returns open sessions older than the given number
	// of days, across all companies. Used by the auto-close job.
	GetStaleOpenSessions(ctx context.Context, olderThanDays int) ([]PunchRecord, error)

	// BulkCreateAbsences inserts punch-less records for employees who missed
	// a scheduled working day. Used by the mark-absent job.
	BulkCreateAbsences(ctx context.Context, records []PunchRecord) error
}
