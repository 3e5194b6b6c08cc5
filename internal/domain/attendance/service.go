package attendance

import (
	"context"
)

// AttendanceService defines business logic for punch capture and for the
// derived classification views.
type AttendanceService interface {
	// PunchIn records the employee's check-in for today, enforcing the
	// geofence when the shift policy configures one.
	PunchIn(ctx context.Context, req PunchInRequest) (PunchRecordResponse, error)

	// PunchOut closes today's open session.
	PunchOut(ctx context.Context, req PunchOutRequest) (PunchRecordResponse, error)

	// AdminPunchOut closes a record on an employee's behalf, marking the
	// punch-out as an administrative override.
	AdminPunchOut(ctx context.Context, req AdminPunchOutRequest) (PunchRecordResponse, error)

	// RecordIdle appends an inactivity interval to today's open session.
	RecordIdle(ctx context.Context, req RecordIdleRequest) (PunchRecordResponse, error)

	// GetMyHistory classifies the authenticated employee's records over a
	// date range. Classifications are derived fresh on every call.
	GetMyHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)

	// GetHistory is the admin variant of GetMyHistory for any employee.
	GetHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
