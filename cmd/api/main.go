package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/worklane/worklane-backend-go/internal/config"
	appHTTP "github.com/worklane/worklane-backend-go/internal/handler/http"
	"github.com/worklane/worklane-backend-go/internal/pkg/database"
	"github.com/worklane/worklane-backend-go/internal/pkg/events"
	"github.com/worklane/worklane-backend-go/internal/pkg/jwt"
	"github.com/worklane/worklane-backend-go/internal/repository/postgresql"
	payrollService "github.com/worklane/worklane-backend-go/internal/service/payroll"
	settingsService "github.com/worklane/worklane-backend-go/internal/service/settings"
	shiftService "github.com/worklane/worklane-backend-go/internal/service/shift"
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
	defer db.Close()

	shiftRepo := postgresql.NewShiftRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	bus := events.NewBus()
	eventLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "events"))
	unsubscribe := bus.Subscribe([]string{
		events.ShiftsCreated, events.ShiftsUpdated, events.ShiftsDeleted,
		events.PayrollCreated, events.PayrollUpdated, events.PayrollDeleted,
	}, func(event string, _ interface{}) {
		eventLogger.Debug("event emitted", slog.String("event", event))
	})
	defer unsubscribe()

	settingsSvc := settingsService.NewService(settingsRepo)
	shiftSvc := shiftService.NewService(shiftRepo, employeeRepo, bus)
	payrollSvc := payrollService.NewService(payrollRepo, shiftRepo, attendanceRepo, employeeRepo, settingsSvc, bus)

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidayRepo)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		shiftHandler,
		payrollHandler,
		holidayHandler,
		settingsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
