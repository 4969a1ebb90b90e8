package report

import (
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
)

// Document is the serialized form of a Report. Monetary values are rounded to
// cents; rates are fractions rounded to eight decimals.
type Document struct {
	Name          string              `json:"name,omitempty"`
	Currency      string              `json:"currency"`
	Initial       InitialDocument     `json:"initial"`
	Schedule      []PaymentDocument   `json:"schedule"`
	Results       ResultsDocument     `json:"results"`
	Profitability ProfitabilityReport `json:"profitability"`
	Warnings      []string            `json:"warnings,omitempty"`
}

// InitialDocument mirrors leasing.InitialData.
type InitialDocument struct {
	InitialFee            float64 `json:"initialFee"`
	NetSellingPrice       float64 `json:"netSellingPrice"`
	IGVFee                float64 `json:"igvFee"`
	SellingValue          float64 `json:"sellingValue"`
	AnnualPaymentCount    float64 `json:"annualPaymentCount"`
	PeriodCount           int     `json:"periodCount"`
	BuybackFee            float64 `json:"buybackFee"`
	InitialCosts          float64 `json:"initialCosts"`
	PeriodicCosts         float64 `json:"periodicCosts"`
	InsuranceAmount       float64 `json:"insuranceAmount"`
	Depreciation          float64 `json:"depreciation"`
	LeasingAmount         float64 `json:"leasingAmount"`
	InterestRatePerPeriod float64 `json:"interestRatePerPeriod"`
}

// PaymentDocument mirrors leasing.Payment.
type PaymentDocument struct {
	Period         int     `json:"period"`
	Grace          string  `json:"grace"`
	OpeningBalance float64 `json:"openingBalance"`
	Interest       float64 `json:"interest"`
	Fee            float64 `json:"fee"`
	Amortization   float64 `json:"amortization"`
	PeriodicCosts  float64 `json:"periodicCosts"`
	Insurance      float64 `json:"insurance"`
	BuybackFee     float64 `json:"buybackFee"`
	ClosingBalance float64 `json:"closingBalance"`
	Depreciation   float64 `json:"depreciation"`
	TaxSavings     float64 `json:"taxSavings"`
	IGV            float64 `json:"igv"`
	GrossFlow      float64 `json:"grossFlow"`
	FlowWithTax    float64 `json:"flowWithTax"`
	NetFlow        float64 `json:"netFlow"`
}

// ResultsDocument mirrors leasing.Results.
type ResultsDocument struct {
	TotalInterest      float64 `json:"totalInterest"`
	TotalAmortization  float64 `json:"totalAmortization"`
	TotalInsurance     float64 `json:"totalInsurance"`
	TotalPeriodicCosts float64 `json:"totalPeriodicCosts"`
	BuybackFee         float64 `json:"buybackFee"`
	TotalPayment       float64 `json:"totalPayment"`
}

// ProfitabilityReport mirrors profitability.Report plus the per-period
// discount rates the NPVs were computed with.
type ProfitabilityReport struct {
	GrossTCEA     float64 `json:"grossTCEA"`
	NetTCEA       float64 `json:"netTCEA"`
	GrossNPV      float64 `json:"grossNPV"`
	NetNPV        float64 `json:"netNPV"`
	GrossIRR      float64 `json:"grossIRR"`
	NetIRR        float64 `json:"netIRR"`
	KsPerPeriod   float64 `json:"ksPerPeriod"`
	WACCPerPeriod float64 `json:"waccPerPeriod"`
}

// Document returns the rounded, serializable form of r.
func (r *Report) Document() Document {
	d := r.Initial
	doc := Document{
		Name:     r.Name,
		Currency: r.Terms.Currency,
		Initial: InitialDocument{
			InitialFee:            mathutil.Round(d.InitialFee),
			NetSellingPrice:       mathutil.Round(d.NetSellingPrice),
			IGVFee:                mathutil.Round(d.IGVFee),
			SellingValue:          mathutil.Round(d.SellingValue),
			AnnualPaymentCount:    d.AnnualPaymentCount,
			PeriodCount:           d.PeriodCount,
			BuybackFee:            mathutil.Round(d.BuybackFee),
			InitialCosts:          mathutil.Round(d.InitialCosts),
			PeriodicCosts:         mathutil.Round(d.PeriodicCosts),
			InsuranceAmount:       mathutil.Round(d.InsuranceAmount),
			Depreciation:          mathutil.Round(d.Depreciation),
			LeasingAmount:         mathutil.Round(d.LeasingAmount),
			InterestRatePerPeriod: rate(d.InterestRatePerPeriod),
		},
		Results: ResultsDocument(r.Results),
		Profitability: ProfitabilityReport{
			GrossTCEA:     rate(r.Profitability.GrossTCEA),
			NetTCEA:       rate(r.Profitability.NetTCEA),
			GrossNPV:      mathutil.Round(r.Profitability.GrossNPV),
			NetNPV:        mathutil.Round(r.Profitability.NetNPV),
			GrossIRR:      rate(r.Profitability.GrossIRR),
			NetIRR:        rate(r.Profitability.NetIRR),
			KsPerPeriod:   rate(r.KsPerPeriod),
			WACCPerPeriod: rate(r.WACCPerPeriod),
		},
		Warnings: r.Warnings,
	}

	for _, p := range leasing.RoundSchedule(r.Schedule) {
		doc.Schedule = append(doc.Schedule, PaymentDocument{
			Period:         p.Period,
			Grace:          p.Grace.String(),
			OpeningBalance: p.OpeningBalance,
			Interest:       p.Interest,
			Fee:            p.Fee,
			Amortization:   p.Amortization,
			PeriodicCosts:  p.PeriodicCosts,
			Insurance:      p.Insurance,
			BuybackFee:     p.BuybackFee,
			ClosingBalance: p.ClosingBalance,
			Depreciation:   p.Depreciation,
			TaxSavings:     p.TaxSavings,
			IGV:            p.IGV,
			GrossFlow:      p.GrossFlow,
			FlowWithTax:    p.FlowWithTax,
			NetFlow:        p.NetFlow,
		})
	}
	return doc
}

func rate(value float64) float64 {
	return mathutil.RoundTo(value, 8)
}
