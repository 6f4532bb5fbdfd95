package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/stocker-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	taxHandler TaxHandler,
	payrollHandler PayrollHandler,
	payslipHandler PayslipHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/tax-tables", func(r chi.Router) {
				r.Post("/", taxHandler.Publish)
				r.Get("/", taxHandler.List)
				r.Get("/{year}", taxHandler.GetByFiscalYear)
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Post("/", payrollHandler.Create)
				r.Get("/", payrollHandler.List)
				r.Get("/summary", payrollHandler.GetSummary)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Put("/", payrollHandler.Update)
					r.Delete("/", payrollHandler.Delete)

					r.Post("/calculate", payrollHandler.Calculate)
					r.Post("/approve", payrollHandler.Approve)
					r.Post("/pay", payrollHandler.Pay)
					r.Post("/cancel", payrollHandler.Cancel)

					r.Route("/items", func(r chi.Router) {
						r.Post("/", payrollHandler.AddItem)
						r.Get("/", payrollHandler.ListItems)
						r.Delete("/{itemID}", payrollHandler.RemoveItem)
					})

					r.Route("/payslip", func(r chi.Router) {
						r.Post("/", payslipHandler.Generate)
						r.Get("/", payslipHandler.GetByPayroll)
					})
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/{id}", payslipHandler.Get)
				r.Get("/{id}/pdf", payslipHandler.DownloadPDF)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/cumulative-state", payrollHandler.GetCumulativeState)
				r.Get("/payslips", payslipHandler.ListByEmployee)
			})
		})
	})

	return r
}
