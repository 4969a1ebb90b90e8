// Package output provides utilities for formatting and displaying leasing reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/leasing-calc/internal/report"
	"github.com/iwvelando/leasing-calc/pkg/format"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, r *report.Report) {
	p := message.NewPrinter(language.English)
	code := r.Terms.Currency
	symbol := format.Symbol(code)
	d := r.Initial

	title := r.Name
	if title == "" {
		title = "leasing"
	}
	fmt.Fprintf(w, "--- Results for %s ---\n", title)
	_, _ = p.Fprintf(w, "Selling price     | %s%.2f\n", symbol, r.Terms.SellingPrice)
	_, _ = p.Fprintf(w, "Initial fee       | %s%.2f\n", symbol, d.InitialFee)
	_, _ = p.Fprintf(w, "IGV               | %s%.2f\n", symbol, d.IGVFee)
	_, _ = p.Fprintf(w, "Selling value     | %s%.2f\n", symbol, d.SellingValue)
	_, _ = p.Fprintf(w, "Leasing amount    | %s%.2f\n", symbol, d.LeasingAmount)
	fmt.Fprintf(w, "Periods           | %d (%g per year)\n", d.PeriodCount, d.AnnualPaymentCount)
	fmt.Fprintf(w, "Rate per period   | %s\n", format.Percent(d.InterestRatePerPeriod, 7))
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Period | Grace   | Opening balance | Interest | Fee | Amortization | Insurance | Closing balance | Gross flow | Net flow\n")
	fmt.Fprintf(w, "______ | _______ | _______________ | ________ | ___ | ____________ | _________ | _______________ | __________ | ________\n")
	for _, pay := range leasing.RoundSchedule(r.Schedule) {
		_, _ = p.Fprintf(w, "%6d | %-7s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f\n",
			pay.Period, pay.Grace, pay.OpeningBalance, pay.Interest, pay.Fee, pay.Amortization,
			pay.Insurance, pay.ClosingBalance, pay.GrossFlow, pay.NetFlow)
	}
	fmt.Fprintf(w, "\n")

	res := r.Results
	fmt.Fprintf(w, "Total interest       | %s\n", format.Currency(res.TotalInterest, code))
	fmt.Fprintf(w, "Total amortization   | %s\n", format.Currency(res.TotalAmortization, code))
	fmt.Fprintf(w, "Total insurance      | %s\n", format.Currency(res.TotalInsurance, code))
	fmt.Fprintf(w, "Total periodic costs | %s\n", format.Currency(res.TotalPeriodicCosts, code))
	fmt.Fprintf(w, "Buyback              | %s\n", format.Currency(res.BuybackFee, code))
	fmt.Fprintf(w, "Total payment        | %s\n", format.Currency(res.TotalPayment, code))
	fmt.Fprintf(w, "\n")

	ind := r.Profitability
	fmt.Fprintf(w, "Gross TCEA | %s\n", format.Percent(ind.GrossTCEA, 5))
	fmt.Fprintf(w, "Net TCEA   | %s\n", format.Percent(ind.NetTCEA, 5))
	fmt.Fprintf(w, "Gross IRR  | %s\n", format.Percent(ind.GrossIRR, 5))
	fmt.Fprintf(w, "Net IRR    | %s\n", format.Percent(ind.NetIRR, 5))
	fmt.Fprintf(w, "Gross NPV  | %s\n", format.Currency(ind.GrossNPV, code))
	fmt.Fprintf(w, "Net NPV    | %s\n", format.Currency(ind.NetNPV, code))

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
}

var csvHeader = []string{
	"period", "grace", "opening balance", "interest", "fee", "amortization", "periodic costs",
	"insurance", "buyback", "closing balance", "depreciation", "tax savings", "igv",
	"gross flow", "flow with tax", "net flow",
}

// CsvFormat outputs the schedule in comma-separated value format.
func CsvFormat(w io.Writer, r *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range leasing.RoundSchedule(r.Schedule) {
		record := []string{strconv.Itoa(p.Period), p.Grace.String()}
		for _, v := range []float64{
			p.OpeningBalance, p.Interest, p.Fee, p.Amortization, p.PeriodicCosts, p.Insurance,
			p.BuybackFee, p.ClosingBalance, p.Depreciation, p.TaxSavings, p.IGV,
			p.GrossFlow, p.FlowWithTax, p.NetFlow,
		} {
			record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
