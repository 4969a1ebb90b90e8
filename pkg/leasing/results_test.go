package leasing

import (
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	schedule := []Payment{
		{Period: 1, Grace: GraceTotal, Interest: -100, PeriodicCosts: -20, Insurance: -2},
		{Period: 2, Grace: GracePartial, Interest: -102, Fee: -102, PeriodicCosts: -20, Insurance: -2},
		{Period: 3, Grace: GraceNone, Interest: -102, Fee: -5202, Amortization: -5100, PeriodicCosts: -20, Insurance: -2},
	}

	results := Aggregate(schedule, -50.004)

	expected := Results{
		TotalInterest:      -204,
		TotalAmortization:  -5100,
		TotalInsurance:     -6,
		TotalPeriodicCosts: -60,
		BuybackFee:         -50,
		TotalPayment:       -5420,
	}
	if results != expected {
		t.Errorf("Aggregate() = %+v, expected %+v", results, expected)
	}
}

func TestAggregateExcludesCapitalizedInterest(t *testing.T) {
	grace := noGrace(11)
	grace[0] = GraceTotal
	_, schedule := generate(t, sampleTerms(), grace)

	withGrace := Aggregate(schedule, 0)
	sum := 0.0
	for _, p := range schedule[1:] {
		sum += p.Interest
	}
	if math.Abs(withGrace.TotalInterest-sum) > 0.005 {
		t.Errorf("TotalInterest = %.2f, expected %.2f", withGrace.TotalInterest, sum)
	}
	if math.Abs(withGrace.TotalInterest-(sum+schedule[0].Interest)) < 0.01 {
		t.Errorf("TotalInterest should not include the capitalized interest of period 1")
	}
}

func TestAggregateAmortizesPrincipal(t *testing.T) {
	data, schedule := generate(t, sampleTerms(), noGrace(11))
	results := Aggregate(schedule, data.BuybackFee)

	if math.Abs(results.TotalAmortization+data.LeasingAmount) > 0.01 {
		t.Errorf("TotalAmortization = %.2f, expected %.2f", results.TotalAmortization, -data.LeasingAmount)
	}
	feeTotal := 0.0
	for _, p := range schedule {
		feeTotal += p.Fee
	}
	if math.Abs(results.TotalPayment-feeTotal) > 0.01 {
		t.Errorf("TotalPayment = %.2f, expected the sum of fees %.2f", results.TotalPayment, feeTotal)
	}
}

func TestFlows(t *testing.T) {
	schedule := []Payment{
		{Period: 1, GrossFlow: -10, NetFlow: -7},
		{Period: 2, GrossFlow: -11, NetFlow: -8},
	}

	tests := []struct {
		name     string
		build    func(float64, []Payment) []float64
		expected []float64
	}{
		{name: "gross", build: GrossFlows, expected: []float64{100, -10, -11}},
		{name: "net", build: NetFlows, expected: []float64{100, -7, -8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build(100, schedule)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d flows, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("flow %d = %.2f, expected %.2f", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
