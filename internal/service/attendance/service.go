package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/shift"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/attendly/attendly-backend-go/internal/pkg/utils"
	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
	"github.com/attendly/attendly-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	attendance.PunchRecordRepository
	db           *database.DB
	shiftService shift.ShiftService
	classifier   *Classifier
	now          func() time.Time
}

func NewAttendanceService(db *database.DB, repo attendance.PunchRecordRepository, shiftService shift.ShiftService) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		PunchRecordRepository: repo,
		db:                    db,
		shiftService:          shiftService,
		classifier:            NewClassifier(),
		now:                   time.Now,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, employeeID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, _ = claims["employee_id"].(string)

	return companyID, employeeID, nil
}

// PunchIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	companyID, employeeID, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	if employeeID == "" {
		return attendance.PunchRecordResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	now := s.now()
	policy, err := s.shiftService.Resolve(ctx, employeeID, now)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	today := localDate(now, policy)

	if err := s.checkGeofence(policy, req.Latitude, req.Longitude); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	var result attendance.PunchRecord
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.PunchRecordRepository.GetByEmployeeAndDate(txCtx, employeeID, today, companyID)
		if err != nil {
			return fmt.Errorf("failed to get punch record: %w", err)
		}
		if existing != nil && existing.PunchIn != nil {
			return attendance.ErrAlreadyPunchedIn
		}

		// The mark-absent job can have seeded a punch-less row for today;
		// fill it in rather than inserting a duplicate day.
		if existing != nil {
			existing.PunchIn = &now
			existing.PunchInLatitude = req.Latitude
			existing.PunchInLongitude = req.Longitude
			if err := s.PunchRecordRepository.Update(txCtx, *existing); err != nil {
				return fmt.Errorf("failed to update punch record: %w", err)
			}
			result = *existing
			return nil
		}

		record := attendance.PunchRecord{
			EmployeeID:       employeeID,
			CompanyID:        companyID,
			Date:             today,
			PunchIn:          &now,
			PunchInLatitude:  req.Latitude,
			PunchInLongitude: req.Longitude,
		}

		created, err := s.PunchRecordRepository.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to create punch record: %w", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	return mapRecordToResponse(result), nil
}

// PunchOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.PunchRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	companyID, employeeID, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	if employeeID == "" {
		return attendance.PunchRecordResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	now := s.now()
	policy, err := s.shiftService.Resolve(ctx, employeeID, now)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	today := localDate(now, policy)

	if err := s.checkGeofence(policy, req.Latitude, req.Longitude); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	var result attendance.PunchRecord
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		record, err := s.PunchRecordRepository.GetByEmployeeAndDate(txCtx, employeeID, today, companyID)
		if err != nil {
			return fmt.Errorf("failed to get punch record: %w", err)
		}
		if record == nil || record.PunchIn == nil {
			return attendance.ErrNotPunchedIn
		}
		if record.PunchOut != nil {
			return attendance.ErrAlreadyPunchedOut
		}

		record.PunchOut = &now
		record.PunchOutLatitude = req.Latitude
		record.PunchOutLongitude = req.Longitude

		if err := s.PunchRecordRepository.Update(txCtx, *record); err != nil {
			return fmt.Errorf("failed to update punch record: %w", err)
		}
		result = *record
		return nil
	})
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	return mapRecordToResponse(result), nil
}

// AdminPunchOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AdminPunchOut(ctx context.Context, req attendance.AdminPunchOutRequest) (attendance.PunchRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	record, err := s.PunchRecordRepository.GetByID(ctx, req.RecordID, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrPunchRecordNotFound) {
			return attendance.PunchRecordResponse{}, attendance.ErrPunchRecordNotFound
		}
		return attendance.PunchRecordResponse{}, fmt.Errorf("failed to get punch record: %w", err)
	}
	if record.PunchIn == nil {
		return attendance.PunchRecordResponse{}, attendance.ErrNotPunchedIn
	}
	if record.PunchOut != nil {
		return attendance.PunchRecordResponse{}, attendance.ErrAlreadyPunchedOut
	}

	punchOut, _ := validator.IsValidDateTime(req.PunchOut)
	if !punchOut.After(*record.PunchIn) {
		return attendance.PunchRecordResponse{}, validator.ValidationErrors{
			{Field: "punch_out", Message: "must be after the record's punch-in"},
		}
	}

	record.PunchOut = &punchOut
	record.AdminOverride = true

	if err := s.PunchRecordRepository.Update(ctx, record); err != nil {
		return attendance.PunchRecordResponse{}, fmt.Errorf("failed to update punch record: %w", err)
	}

	return mapRecordToResponse(record), nil
}

// RecordIdle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordIdle(ctx context.Context, req attendance.RecordIdleRequest) (attendance.PunchRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchRecordResponse{}, err
	}

	companyID, employeeID, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	if employeeID == "" {
		return attendance.PunchRecordResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	now := s.now()
	policy, err := s.shiftService.Resolve(ctx, employeeID, now)
	if err != nil {
		return attendance.PunchRecordResponse{}, err
	}
	today := localDate(now, policy)

	record, err := s.PunchRecordRepository.GetByEmployeeAndDate(ctx, employeeID, today, companyID)
	if err != nil {
		return attendance.PunchRecordResponse{}, fmt.Errorf("failed to get punch record: %w", err)
	}
	if record == nil || record.PunchIn == nil {
		return attendance.PunchRecordResponse{}, attendance.ErrNotPunchedIn
	}
	if record.PunchOut != nil {
		return attendance.PunchRecordResponse{}, attendance.ErrAlreadyPunchedOut
	}

	start, _ := validator.IsValidDateTime(req.Start)
	end, _ := validator.IsValidDateTime(req.End)
	if start.Before(*record.PunchIn) {
		return attendance.PunchRecordResponse{}, validator.ValidationErrors{
			{Field: "start", Message: "must not be before the punch-in"},
		}
	}

	record.IdleIntervals = append(record.IdleIntervals, attendance.IdleInterval{Start: start, End: end})

	if err := s.PunchRecordRepository.Update(ctx, *record); err != nil {
		return attendance.PunchRecordResponse{}, fmt.Errorf("failed to update punch record: %w", err)
	}

	return mapRecordToResponse(*record), nil
}

// GetMyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	companyID, employeeID, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}
	if employeeID == "" {
		return attendance.HistoryResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	return s.history(ctx, employeeID, companyID, filter)
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}
	if filter.EmployeeID == nil || *filter.EmployeeID == "" {
		return attendance.HistoryResponse{}, validator.ValidationErrors{
			{Field: "employee_id", Message: "is required"},
		}
	}

	return s.history(ctx, *filter.EmployeeID, companyID, filter)
}

// history derives classifications for every stored record in the range.
// A record failing the integrity check is reported on its day instead of
// failing the whole range.
func (s *AttendanceServiceImpl) history(ctx context.Context, employeeID string, companyID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	policy, err := s.shiftService.Resolve(ctx, employeeID, s.now())
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	loc := policy.Location()
	from, _ := time.ParseInLocation("2006-01-02", filter.StartDate, loc)
	to, _ := time.ParseInLocation("2006-01-02", filter.EndDate, loc)

	records, err := s.PunchRecordRepository.ListByEmployeeAndRange(ctx, employeeID, from, to, companyID)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list punch records: %w", err)
	}

	response := attendance.HistoryResponse{
		EmployeeID: employeeID,
		Days:       make([]attendance.ClassificationResponse, 0, len(records)),
	}

	now := s.now()
	for _, record := range records {
		day := attendance.ClassificationResponse{
			Date: record.Date.Format("2006-01-02"),
		}

		result, err := s.classifier.Classify(record, policy, now)
		if err != nil {
			var integrityErr *attendance.DataIntegrityError
			if errors.As(err, &integrityErr) {
				reason := integrityErr.Reason
				day.IntegrityProblem = &reason
				response.Days = append(response.Days, day)
				continue
			}
			return attendance.HistoryResponse{}, err
		}

		day.WorkedMinutes = int(result.WorkedDuration.Minutes())
		day.LoginStatus = string(result.LoginStatus)
		day.WorkedCategory = string(result.WorkedCategory)
		day.WeeklyOff = result.WeeklyOff
		day.StillWorking = result.InProgress
		response.Days = append(response.Days, day)

		switch result.WorkedCategory {
		case attendance.CategoryFullDay:
			response.FullDays++
		case attendance.CategoryHalfDay:
			response.HalfDays++
		case attendance.CategoryAbsent:
			response.AbsentDays++
		}
		if result.LoginStatus == attendance.LoginLate {
			response.LateDays++
		}
	}

	return response, nil
}

// checkGeofence enforces the policy's office radius when one is configured.
func (s *AttendanceServiceImpl) checkGeofence(policy shift.Policy, lat, lng *float64) error {
	if policy.OfficeLatitude == nil || policy.OfficeLongitude == nil || policy.RadiusMeters == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return validator.ValidationErrors{
			{Field: "latitude", Message: "location is required for this shift"},
		}
	}

	distance := utils.CalculateHaversineDistance(*policy.OfficeLatitude, *policy.OfficeLongitude, *lat, *lng)
	if distance > float64(*policy.RadiusMeters) {
		return attendance.ErrOutsideAllowedRadius
	}
	return nil
}

// localDate truncates an instant to its calendar day in the policy's zone.
func localDate(t time.Time, policy shift.Policy) time.Time {
	local := t.In(policy.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

func mapRecordToResponse(record attendance.PunchRecord) attendance.PunchRecordResponse {
	response := attendance.PunchRecordResponse{
		ID:            record.ID,
		EmployeeID:    record.EmployeeID,
		Date:          record.Date.Format("2006-01-02"),
		AdminOverride: record.AdminOverride,
		IdleIntervals: record.IdleIntervals,
	}
	if record.EmployeeName != nil {
		response.EmployeeName = *record.EmployeeName
	}
	if record.PunchIn != nil {
		in := record.PunchIn.Format(time.RFC3339)
		response.PunchIn = &in
	}
	if record.PunchOut != nil {
		out := record.PunchOut.Format(time.RFC3339)
		response.PunchOut = &out
	}
	return response
}
