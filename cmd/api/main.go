package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/stocker-hr/payroll-backend-go/internal/config"
	appHTTP "github.com/stocker-hr/payroll-backend-go/internal/handler/http"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/database"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/stocker-hr/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/stocker-hr/payroll-backend-go/internal/service/payroll"
	payslipService "github.com/stocker-hr/payroll-backend-go/internal/service/payslip"
	taxService "github.com/stocker-hr/payroll-backend-go/internal/service/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	bracketTableRepo := postgresql.NewBracketTableRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	stateRepo := postgresql.NewCumulativeStateRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	publisher := payrollService.NewLogPublisher(logger)

	taxSvc := taxService.NewTaxService(bracketTableRepo)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, stateRepo, bracketTableRepo, publisher)
	payslipSvc := payslipService.NewPayslipService(payslipRepo, payrollRepo, stateRepo)

	taxHandler := appHTTP.NewTaxHandler(taxSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	payslipHandler := appHTTP.NewPayslipHandler(payslipSvc)

	router := appHTTP.NewRouter(JWTService, taxHandler, payrollHandler, payslipHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
