package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
)

func testPolicy() shift.Policy {
	return shift.Policy{
		CompanyID:        "company-1",
		StartTime:        "09:00",
		EndTime:          "18:00",
		TimeZone:         "Asia/Jakarta",
		LateGraceMinutes: 15,
		FullDayHours:     9,
		HalfDayHours:     4.5,
		WeeklyOffDays:    shift.WeekdaySet{int(time.Sunday)},
		AutoExtend:       true,
	}
}

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

// 2025-06-02 is a Monday.
func workday(loc *time.Location) time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
}

func punchRecord(date time.Time, in, out *time.Time) attendance.PunchRecord {
	return attendance.PunchRecord{
		ID:         "rec-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Date:       date,
		PunchIn:    in,
		PunchOut:   out,
	}
}

func at(date time.Time, hour, minute int) *time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	return &t
}

func TestClassify_OnTimeFullDay(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	// 09:10 is inside the 15 minute grace; 18:30 gives 9h20m worked.
	record := punchRecord(date, at(date, 9, 10), at(date, 18, 30))
	result, err := classifier.Classify(record, policy, date.Add(20*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, attendance.LoginOnTime, result.LoginStatus)
	assert.Equal(t, attendance.CategoryFullDay, result.WorkedCategory)
	assert.Equal(t, 9*time.Hour+20*time.Minute, result.WorkedDuration)
	assert.False(t, result.WeeklyOff)
	assert.False(t, result.InProgress)
}

func TestClassify_LateHalfDay(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	// 09:16 is one minute past the grace limit; 5h worked lands between the
	// half-day and full-day thresholds.
	record := punchRecord(date, at(date, 9, 16), at(date, 14, 16))
	result, err := classifier.Classify(record, policy, date.Add(20*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, attendance.LoginLate, result.LoginStatus)
	assert.Equal(t, attendance.CategoryHalfDay, result.WorkedCategory)
	assert.Equal(t, 5*time.Hour, result.WorkedDuration)
}

func TestClassify_GraceBoundaryIsOnTime(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	// Exactly start + grace is still on time; late begins strictly after.
	record := punchRecord(date, at(date, 9, 15), at(date, 18, 15))
	result, err := classifier.Classify(record, policy, date.Add(20*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, attendance.LoginOnTime, result.LoginStatus)
}

func TestClassify_BelowHalfDayThresholdIsAbsent(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 13, 0))
	result, err := classifier.Classify(record, policy, date.Add(20*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, attendance.CategoryAbsent, result.WorkedCategory)
	assert.Equal(t, 4*time.Hour, result.WorkedDuration)
}

func TestClassify_ExactThresholdBoundaries(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()
	now := date.Add(23 * time.Hour)

	// Exactly 4.5h worked is a half day.
	record := punchRecord(date, at(date, 9, 0), at(date, 13, 30))
	result, err := classifier.Classify(record, policy, now)
	require.NoError(t, err)
	assert.Equal(t, attendance.CategoryHalfDay, result.WorkedCategory)

	// Exactly 9h worked is a full day.
	record = punchRecord(date, at(date, 9, 0), at(date, 18, 0))
	result, err = classifier.Classify(record, policy, now)
	require.NoError(t, err)
	assert.Equal(t, attendance.CategoryFullDay, result.WorkedCategory)
}

func TestClassify_IdleTimeSubtracted(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 18, 30))
	record.IdleIntervals = attendance.IdleIntervals{
		{Start: *at(date, 12, 0), End: *at(date, 13, 0)},
	}
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	// 9h30m span minus 1h idle drops below the full-day threshold.
	assert.Equal(t, 8*time.Hour+30*time.Minute, result.WorkedDuration)
	assert.Equal(t, attendance.CategoryHalfDay, result.WorkedCategory)
}

func TestClassify_AutoExtendDisabledCapsAtShiftEnd(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	policy.AutoExtend = false
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 21, 0))
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	// Accrual stops at 18:00 regardless of the 21:00 punch-out.
	assert.Equal(t, 9*time.Hour, result.WorkedDuration)
	assert.Equal(t, attendance.CategoryFullDay, result.WorkedCategory)
}

func TestClassify_AutoExtendEnabledCountsOvertime(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 21, 0))
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, result.WorkedDuration)
}

func TestClassify_NoPunchInIsAbsent(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, nil, nil)
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, attendance.CategoryAbsent, result.WorkedCategory)
	assert.Equal(t, attendance.LoginNotApplicable, result.LoginStatus)
	assert.False(t, result.WeeklyOff)
}

func TestClassify_WeeklyOffWithoutPunchesIsExcluded(t *testing.T) {
	loc := jakarta(t)
	// 2025-06-01 is a Sunday.
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, nil, nil)
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	assert.True(t, result.WeeklyOff)
	assert.Equal(t, attendance.CategoryNotApplicable, result.WorkedCategory)
	assert.Equal(t, attendance.LoginNotApplicable, result.LoginStatus)
}

func TestClassify_WeeklyOffWithPunchesIsClassified(t *testing.T) {
	loc := jakarta(t)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	policy := testPolicy()
	classifier := NewClassifier()

	// Working a scheduled day off still classifies normally.
	record := punchRecord(date, at(date, 9, 0), at(date, 18, 0))
	result, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	require.NoError(t, err)
	assert.False(t, result.WeeklyOff)
	assert.Equal(t, attendance.CategoryFullDay, result.WorkedCategory)
}

func TestClassify_OpenSessionTodayIsInProgress(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), nil)
	now := time.Date(2025, 6, 2, 14, 0, 0, 0, loc)
	result, err := classifier.Classify(record, policy, now)

	require.NoError(t, err)
	assert.True(t, result.InProgress)
	assert.Equal(t, attendance.CategoryNotApplicable, result.WorkedCategory)
	assert.Equal(t, attendance.LoginOnTime, result.LoginStatus)
}

func TestClassify_OpenSessionPastDayIsAbsent(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), nil)
	now := time.Date(2025, 6, 4, 10, 0, 0, 0, loc)
	result, err := classifier.Classify(record, policy, now)

	require.NoError(t, err)
	assert.False(t, result.InProgress)
	assert.Equal(t, attendance.CategoryAbsent, result.WorkedCategory)
}

func TestClassify_PunchOutBeforePunchInIsRejected(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 18, 0), at(date, 9, 0))
	_, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	var integrityErr *attendance.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "emp-1", integrityErr.EmployeeID)
	assert.Equal(t, date, integrityErr.Date)
}

func TestClassify_EqualPunchTimesAreRejected(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 9, 0))
	_, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	var integrityErr *attendance.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
}

func TestClassify_IdleExceedingSpanIsRejected(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()

	record := punchRecord(date, at(date, 9, 0), at(date, 12, 0))
	record.IdleIntervals = attendance.IdleIntervals{
		{Start: *at(date, 9, 0), End: *at(date, 14, 0)},
	}
	_, err := classifier.Classify(record, policy, date.Add(23*time.Hour))

	var integrityErr *attendance.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Contains(t, integrityErr.Reason, "idle time")
}

func TestClassify_IsDeterministic(t *testing.T) {
	loc := jakarta(t)
	date := workday(loc)
	policy := testPolicy()
	classifier := NewClassifier()
	now := date.Add(23 * time.Hour)

	record := punchRecord(date, at(date, 9, 10), at(date, 18, 30))
	first, err := classifier.Classify(record, policy, now)
	require.NoError(t, err)
	second, err := classifier.Classify(record, policy, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
