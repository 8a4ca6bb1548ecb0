package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-engine/internal/calculator"
	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
)

func offer(id, bankID string, rate, payment, cost float64, hours int, eligible bool) domain.Offer {
	return domain.Offer{
		Product: domain.CreditProduct{ID: id, BankID: bankID, Name: id, ProcessingTimeHours: hours},
		Result: domain.SimulationResult{
			AppliedRate:    rate,
			MonthlyPayment: payment,
			TotalCost:      cost,
			Eligible:       eligible,
		},
	}
}

func sampleOffers() []domain.Offer {
	return []domain.Offer{
		offer("a", "b1", 14, 96_000, 2_304_000, 72, true),
		offer("b", "b2", 11, 93_000, 2_232_000, 24, true),
		offer("c", "b3", 9, 91_000, 2_184_000, 120, false),
		offer("d", "b1", 11, 94_500, 2_268_000, 48, true),
	}
}

func ids(offers []domain.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.Product.ID
	}
	return out
}

func TestScore(t *testing.T) {
	best := offer("x", "b", 0, 0, 0, 0, true)
	assert.InDelta(t, 1.0, Score(best, DefaultWeights, 5_000_000), 1e-9)

	worst := offer("y", "b", 25, 6_000_000, 0, 200, false)
	assert.Equal(t, 0.0, Score(worst, DefaultWeights, 5_000_000))

	// rate (20-10)/20=0.5, speed (168-84)/168=0.5, payment (5M-2.5M)/5M=0.5, eligible 1
	mid := offer("z", "b", 10, 2_500_000, 0, 84, true)
	assert.InDelta(t, 0.4*0.5+0.3*1+0.2*0.5+0.1*0.5, Score(mid, DefaultWeights, 5_000_000), 1e-9)
}

func TestScore_Range(t *testing.T) {
	for _, o := range sampleOffers() {
		s := Score(o, Weights{Rate: 3, Eligibility: 1, Speed: 1, Payment: 5}, 0)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestWeights_Normalize(t *testing.T) {
	w := Weights{Rate: 2, Eligibility: 1, Speed: 1, Payment: 0}.Normalize()
	assert.InDelta(t, 0.5, w.Rate, 1e-9)
	assert.InDelta(t, 0.25, w.Speed, 1e-9)

	assert.Equal(t, DefaultWeights, Weights{}.Normalize())
}

func TestSort(t *testing.T) {
	offers := sampleOffers()

	tests := []struct {
		name      string
		criterion domain.SortCriterion
		order     domain.SortOrder
		expected  []string
	}{
		{name: "rate asc is stable", criterion: domain.SortByRate, order: domain.SortAsc, expected: []string{"c", "b", "d", "a"}},
		{name: "rate desc", criterion: domain.SortByRate, order: domain.SortDesc, expected: []string{"a", "b", "d", "c"}},
		{name: "payment asc", criterion: domain.SortByPayment, order: domain.SortAsc, expected: []string{"c", "b", "d", "a"}},
		{name: "processing time asc", criterion: domain.SortByProcessingTime, order: domain.SortAsc, expected: []string{"b", "d", "a", "c"}},
		{name: "eligible first", criterion: domain.SortByEligibility, order: domain.SortAsc, expected: []string{"a", "b", "d", "c"}},
		{name: "unknown criterion sorts by rate", criterion: "colour", order: domain.SortAsc, expected: []string{"c", "b", "d", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Sort(offers, tt.criterion, tt.order)))
		})
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(offers), "input must not be reordered")
}

func TestSort_RateAscendingProperty(t *testing.T) {
	sorted := Sort(sampleOffers(), domain.SortByRate, domain.SortAsc)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Result.AppliedRate, sorted[i].Result.AppliedRate)
	}
}

func TestSort_ByScore(t *testing.T) {
	offers := sampleOffers()
	offers[0].Score, offers[1].Score, offers[2].Score, offers[3].Score = 0.5, 0.9, 0.1, 0.7

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(Sort(offers, domain.SortByScore, domain.SortDesc)))
}

func TestFilter(t *testing.T) {
	offers := sampleOffers()

	tests := []struct {
		name     string
		filter   domain.OfferFilter
		expected []string
	}{
		{name: "no predicate", filter: domain.OfferFilter{}, expected: []string{"a", "b", "c", "d"}},
		{name: "max rate", filter: domain.OfferFilter{MaxRate: 11}, expected: []string{"b", "c", "d"}},
		{name: "max payment", filter: domain.OfferFilter{MaxPayment: 93_000}, expected: []string{"b", "c"}},
		{name: "max processing", filter: domain.OfferFilter{MaxProcessingHours: 48}, expected: []string{"b", "d"}},
		{name: "eligible only", filter: domain.OfferFilter{EligibleOnly: true}, expected: []string{"a", "b", "d"}},
		{name: "bank allowlist", filter: domain.OfferFilter{BankIDs: []string{"b1"}}, expected: []string{"a", "d"}},
		{name: "conjunction", filter: domain.OfferFilter{MaxRate: 12, EligibleOnly: true, BankIDs: []string{"b1", "b3"}}, expected: []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(offers, tt.filter)))
		})
	}
}

func TestBest(t *testing.T) {
	offers := sampleOffers()
	for i := range offers {
		offers[i].Score = Score(offers[i], DefaultWeights, 5_000_000)
	}

	byPayment, ok := Best(offers, domain.SortByPayment)
	require.True(t, ok)
	assert.Equal(t, "b", byPayment.Product.ID, "c is cheaper but not eligible")

	byRate, ok := Best(offers, domain.SortByRate)
	require.True(t, ok)
	assert.Equal(t, "b", byRate.Product.ID, "ties keep the first offer")

	byScore, ok := Best(offers, domain.SortByScore)
	require.True(t, ok)
	assert.Equal(t, "b", byScore.Product.ID)
}

func TestBest_FallsBackToAllOffers(t *testing.T) {
	offers := []domain.Offer{
		offer("a", "b1", 14, 96_000, 0, 72, false),
		offer("b", "b2", 12, 98_000, 0, 24, false),
	}

	best, ok := Best(offers, domain.SortByPayment)
	require.True(t, ok)
	assert.Equal(t, "a", best.Product.ID)

	_, ok = Best(nil, domain.SortByRate)
	assert.False(t, ok)
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(sampleOffers())

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 3, stats.EligibleCount)
	assert.Equal(t, 9.0, stats.BestRate)
	assert.Equal(t, 11.25, stats.AverageRate)
	assert.Equal(t, 91_000.0, stats.MinMonthlyPayment)
	assert.Equal(t, 96_000.0, stats.MaxMonthlyPayment)
	assert.Equal(t, 72_000.0, stats.MaxSavings)

	assert.Equal(t, domain.Statistics{}, ComputeStatistics(nil))
}

func catalogue() []domain.CreditProduct {
	bank := func(id string) domain.Bank { return domain.Bank{ID: id, Name: id, IsActive: true} }
	base := domain.CreditProduct{
		Type: domain.CreditTypeConsumption, MinAmount: 100_000, MaxAmount: 10_000_000,
		MinDurationMonths: 6, MaxDurationMonths: 60, IsActive: true,
	}

	p1 := base
	p1.ID, p1.BankID, p1.Bank, p1.AverageRate, p1.ProcessingTimeHours = "p1", "b1", bank("b1"), 15, 48
	p2 := base
	p2.ID, p2.BankID, p2.Bank, p2.AverageRate, p2.ProcessingTimeHours = "p2", "b2", bank("b2"), 12, 24
	inactive := base
	inactive.ID, inactive.BankID, inactive.Bank, inactive.IsActive, inactive.AverageRate = "p3", "b3", bank("b3"), false, 5
	closedBank := base
	closedBank.ID, closedBank.BankID, closedBank.Bank, closedBank.AverageRate = "p4", "b4", domain.Bank{ID: "b4", IsActive: false}, 5
	tooSmall := base
	tooSmall.ID, tooSmall.BankID, tooSmall.Bank, tooSmall.MaxAmount, tooSmall.AverageRate = "p5", "b5", bank("b5"), 1_000_000, 6
	otherType := base
	otherType.ID, otherType.BankID, otherType.Bank, otherType.Type, otherType.AverageRate = "p6", "b6", bank("b6"), domain.CreditTypeAuto, 7

	return []domain.CreditProduct{p1, p2, inactive, closedBank, tooSmall, otherType}
}

func TestComparator_Compare(t *testing.T) {
	c := New(calculator.New(calculator.DefaultOptions()), DefaultWeights, 5_000_000)
	req := domain.CreditRequest{
		RequestedAmount: 2_000_000,
		DurationMonths:  24,
		MonthlyIncome:   1_000_000,
		CreditType:      domain.CreditTypeConsumption,
	}

	set, err := c.Compare(req, catalogue())
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, ids(set.Offers))
	assert.Equal(t, req, set.Request)
	assert.Equal(t, 2, set.Statistics.Count)
	assert.Equal(t, 2, set.Statistics.EligibleCount)
	assert.Equal(t, 12.0, set.Statistics.BestRate)
	assert.Equal(t, 96973.30, set.Offers[0].Result.MonthlyPayment)
	assert.Greater(t, set.Statistics.MaxSavings, 0.0)
	assert.Greater(t, set.Offers[1].Score, set.Offers[0].Score)
	assert.False(t, set.CreatedAt.IsZero())

	best, ok := Best(set.Offers, domain.SortByPayment)
	require.True(t, ok)
	assert.Equal(t, "p2", best.Product.ID)
}

func TestComparator_CompareNoCompatibleProduct(t *testing.T) {
	c := New(calculator.New(calculator.DefaultOptions()), DefaultWeights, 0)
	req := domain.CreditRequest{RequestedAmount: 50_000_000, DurationMonths: 24, MonthlyIncome: 1_000_000}

	set, err := c.Compare(req, catalogue())
	require.NoError(t, err)
	assert.Empty(t, set.Offers)
	assert.Equal(t, 0, set.Statistics.Count)
}

func TestComparator_CompareSimulationError(t *testing.T) {
	c := New(calculator.New(calculator.DefaultOptions()), DefaultWeights, 0)
	req := domain.CreditRequest{RequestedAmount: 2_000_000, DurationMonths: 24, MonthlyIncome: 0}

	_, err := c.Compare(req, catalogue())
	assert.ErrorIs(t, err, calculator.ErrInvalidIncome)
}

func TestRefine(t *testing.T) {
	set := domain.ComparisonSet{Offers: sampleOffers()}

	refined := Refine(set, domain.OfferFilter{EligibleOnly: true}, domain.SortByPayment, domain.SortAsc)

	assert.Equal(t, []string{"b", "d", "a"}, ids(refined.Offers))
	assert.Equal(t, 3, refined.Statistics.Count)
	assert.Len(t, set.Offers, 4)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Business.Weights = config.WeightsConfig{Rate: 4, Eligibility: 3, Speed: 2, Payment: 1}

	c := NewFromConfig(calculator.New(calculator.DefaultOptions()), cfg)
	assert.InDelta(t, 0.4, c.Weights().Rate, 1e-9)
	assert.InDelta(t, 0.1, c.Weights().Payment, 1e-9)
}
