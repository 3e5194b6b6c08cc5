package main

import (
	"fmt"
	"net/http"

	"github.com/attendly/attendly-backend-go/internal/config"
	appHTTP "github.com/attendly/attendly-backend-go/internal/handler/http"
	"github.com/attendly/attendly-backend-go/internal/pkg/cron"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/attendly/attendly-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendly-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendly-backend-go/internal/service/attendance"
	leaveService "github.com/attendly/attendly-backend-go/internal/service/leave"
	payrollService "github.com/attendly/attendly-backend-go/internal/service/payroll"
	shiftService "github.com/attendly/attendly-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	shiftPolicyRepo := postgresql.NewShiftPolicyRepository(db)
	punchRecordRepo := postgresql.NewPunchRecordRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	shiftSvc := shiftService.NewShiftService(shiftPolicyRepo, shiftService.Defaults{
		StartTime:        cfg.Engine.DefaultShiftStart,
		EndTime:          cfg.Engine.DefaultShiftEnd,
		TimeZone:         cfg.Engine.DefaultTimeZone,
		LateGraceMinutes: cfg.Engine.DefaultLateGraceMins,
		FullDayHours:     cfg.Engine.DefaultFullDayHours,
		HalfDayHours:     cfg.Engine.DefaultHalfDayHours,
	})
	attendanceSvc := attendanceService.NewAttendanceService(db, punchRecordRepo, shiftSvc)
	accountant := leaveService.NewYearAccountant(cfg.Engine.LeaveYearStartMonth)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, accountant)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		employeeRepo,
		punchRecordRepo,
		leaveRequestRepo,
		shiftSvc,
		payrollService.Defaults{
			MonthlyWorkingDays:  cfg.Engine.DefaultMonthlyWorkDays,
			LeaveYearStartMonth: cfg.Engine.LeaveYearStartMonth,
		},
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(punchRecordRepo, employeeRepo, shiftSvc)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		shiftHandler,
		leaveHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
