package payslip

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/stocker-hr/payroll-backend-go/internal/domain/payslip"
)

// renderPDF lays out the payslip as a single A4 page: header, period and
// employee identifiers, one row per line item, then the statutory totals.
func renderPDF(slip payslip.Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Payslip number: %s", slip.PayslipNumber))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", slip.EmployeeID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %d-%02d", slip.Year, slip.Month))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Work days: %d   Absent: %d   Leave: %d", slip.WorkDays, slip.AbsentDays, slip.LeaveDays))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(120, 8, "Description")
	pdf.Cell(0, 8, fmt.Sprintf("Amount (%s)", slip.Currency))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range slip.Items {
		amount := item.Amount.StringFixed(2)
		if item.ItemType == payslip.ItemTypeDeduction {
			amount = "-" + amount
		}
		pdf.Cell(120, 7, item.Name)
		pdf.Cell(0, 7, amount)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(120, 7, "Gross earnings")
	pdf.Cell(0, 7, slip.GrossEarnings.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(120, 7, "Total deductions")
	pdf.Cell(0, 7, slip.TotalDeductions.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(120, 7, "Net salary")
	pdf.Cell(0, 7, slip.NetSalary.StringFixed(2))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Cumulative gross (YTD): %s   Cumulative tax base (YTD): %s",
		slip.CumulativeGrossEarnings.StringFixed(2), slip.CumulativeTaxBase.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Employer cost: %s   Generated: %s",
		slip.TotalEmployerCost.StringFixed(2), slip.GeneratedAt.Format("2006-01-02")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	return buf.Bytes(), nil
}
