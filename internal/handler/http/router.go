package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/worklane/worklane-backend-go/internal/config"
	"github.com/worklane/worklane-backend-go/internal/handler/http/middleware"
	"github.com/worklane/worklane-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	shiftHandler ShiftHandler,
	payrollHandler PayrollHandler,
	holidayHandler HolidayHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "worklane"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Post("/", shiftHandler.Submit)
				r.Get("/my", shiftHandler.ListMine)
				r.Put("/{id}", shiftHandler.Update)
				r.Delete("/{id}", shiftHandler.Delete)

				// Approval capability required
				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Get("/week", shiftHandler.WeekGrid)
					r.Patch("/{id}/status", shiftHandler.SetStatus)
					r.Post("/week/status", shiftHandler.BulkWeekStatus)
					r.Put("/admin", shiftHandler.AdminUpsert)
					r.Get("/employee/{employeeID}", shiftHandler.ListByEmployee)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/my", payrollHandler.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Post("/calculate", payrollHandler.Calculate)
					r.Post("/recalculate", payrollHandler.RecalculateAll)
					r.Get("/month/{month}", payrollHandler.ListByMonth)
					r.Route("/{userID}/{month}", func(r chi.Router) {
						r.Get("/", payrollHandler.Get)
						r.Put("/", payrollHandler.Update)
						r.Post("/paid", payrollHandler.MarkPaid)
						r.Get("/breakdown", payrollHandler.Breakdown)
						r.Delete("/", payrollHandler.Delete)
					})
				})
			})

			r.Get("/holidays", holidayHandler.List)

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.ApproverOnly)
				r.Get("/", settingsHandler.List)
				r.Put("/", settingsHandler.Set)
			})
		})
	})

	return r
}
