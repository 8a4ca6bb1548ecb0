package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
)

func product(rate float64) domain.CreditProduct {
	return domain.CreditProduct{
		ID:                  "prod-1",
		BankID:              "bank-1",
		Name:                "Prêt Express",
		Type:                domain.CreditTypeConsumption,
		MinAmount:           100_000,
		MaxAmount:           10_000_000,
		MinDurationMonths:   3,
		MaxDurationMonths:   60,
		AverageRate:         rate,
		ProcessingTimeHours: 48,
		IsActive:            true,
		Bank:                domain.Bank{ID: "bank-1", Name: "Afriland", IsActive: true},
	}
}

func TestSimulate_ConcreteScenario(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{
		RequestedAmount: 2_000_000,
		DurationMonths:  24,
		MonthlyIncome:   1_000_000,
		CreditType:      domain.CreditTypeConsumption,
	}

	result, err := calc.Simulate(req, product(15))
	require.NoError(t, err)

	assert.Equal(t, 15.0, result.AppliedRate)
	assert.Equal(t, 96973.30, result.MonthlyPayment)
	assert.Equal(t, 2327359.20, result.TotalCost)
	assert.Equal(t, 327359.20, result.TotalInterest)
	assert.InDelta(t, 9.69733, result.DebtRatio, 1e-9)
	assert.True(t, result.Eligible)
	assert.NotEmpty(t, result.Recommendations)
	assert.Nil(t, result.AmortizationSchedule)
}

func TestSimulate_ZeroRate(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 1_000_000, DurationMonths: 10, MonthlyIncome: 1_000_000}

	result, err := calc.Simulate(req, product(0))
	require.NoError(t, err)

	assert.Equal(t, 100000.0, result.MonthlyPayment)
	assert.Equal(t, 1_000_000.0, result.TotalCost)
	assert.Equal(t, 0.0, result.TotalInterest)
}

func TestSimulate_DownPaymentReducesPrincipal(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 1_200_000, DownPayment: 200_000, DurationMonths: 10, MonthlyIncome: 1_000_000}

	result, err := calc.Simulate(req, product(0))
	require.NoError(t, err)

	assert.Equal(t, 100000.0, result.MonthlyPayment)
	assert.Equal(t, 0.0, result.TotalInterest)
}

func TestSimulate_EligibilityBoundary(t *testing.T) {
	calc := New(Options{MaxDebtRatio: 33})

	// 1 200 000 at 0% over 12 months is 100 000 a month.
	base := domain.CreditRequest{RequestedAmount: 1_200_000, DurationMonths: 12, MonthlyIncome: 1_000_000}

	tests := []struct {
		name     string
		debts    float64
		eligible bool
	}{
		{name: "32.999% is eligible", debts: 229_990, eligible: true},
		{name: "exactly 33% is eligible", debts: 230_000, eligible: true},
		{name: "33.001% is not eligible", debts: 230_010, eligible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.CurrentDebts = tt.debts

			result, err := calc.Simulate(req, product(0))
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, result.Eligible, "debt ratio %v", result.DebtRatio)
		})
	}
}

func TestSimulate_IneligibleSuggestsCapacity(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 5_000_000, DurationMonths: 12, MonthlyIncome: 300_000}

	result, err := calc.Simulate(req, product(12))
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	require.GreaterOrEqual(t, len(result.Recommendations), 2)
	assert.Contains(t, result.Recommendations[0], "exceeds the 33 % ceiling")
	assert.Contains(t, result.Recommendations[1], "borrow up to")
}

func TestSimulate_DownPaymentCoversAmount(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 500_000, DownPayment: 500_000, DurationMonths: 12, MonthlyIncome: 300_000, CurrentDebts: 10_000}

	result, err := calc.Simulate(req, product(10))
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Equal(t, 0.0, result.MonthlyPayment)
	assert.InDelta(t, 3.3333, result.DebtRatio, 1e-3)
	assert.Len(t, result.Recommendations, 1)
}

func TestSimulate_Errors(t *testing.T) {
	calc := New(DefaultOptions())

	_, err := calc.Simulate(domain.CreditRequest{RequestedAmount: 1000, DurationMonths: 12, MonthlyIncome: 0}, product(10))
	assert.ErrorIs(t, err, ErrInvalidIncome)

	_, err = calc.Simulate(domain.CreditRequest{RequestedAmount: 1000, DurationMonths: 0, MonthlyIncome: 1000}, product(10))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = calc.Simulate(domain.CreditRequest{RequestedAmount: 1000, DurationMonths: 12, MonthlyIncome: 1000}, product(-2))
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestSimulate_Deterministic(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 3_500_000, DurationMonths: 36, MonthlyIncome: 800_000, CurrentDebts: 40_000}

	first, err := calc.Simulate(req, product(13.5))
	require.NoError(t, err)
	second, err := calc.Simulate(req, product(13.5))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulateWithSchedule(t *testing.T) {
	calc := New(DefaultOptions())
	req := domain.CreditRequest{RequestedAmount: 2_000_000, DurationMonths: 24, MonthlyIncome: 1_000_000}

	preview, err := calc.SimulateWithSchedule(req, product(15), -1)
	require.NoError(t, err)
	assert.Len(t, preview.AmortizationSchedule, 12)

	full, err := calc.SimulateWithSchedule(req, product(15), 0)
	require.NoError(t, err)
	assert.Len(t, full.AmortizationSchedule, 24)
	assert.Equal(t, full.MonthlyPayment, full.AmortizationSchedule[0].Payment)
}

func TestRecommendations(t *testing.T) {
	calc := New(DefaultOptions())

	long := domain.CreditRequest{RequestedAmount: 30_000_000, DurationMonths: 240, MonthlyIncome: 2_000_000, CreditType: domain.CreditTypeRealEstate}
	result, err := calc.Simulate(long, product(16))
	require.NoError(t, err)

	joined := ""
	for _, r := range result.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "is high")
	assert.Contains(t, joined, "Over 20 years")
	assert.Contains(t, joined, "down payment")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Business.MaxDebtRatio = "35"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 35.0, opts.MaxDebtRatio)
	assert.Equal(t, 12, opts.PreviewRows)
	assert.Equal(t, "FCFA", opts.CurrencySuffix)

	assert.Equal(t, DefaultMaxDebtRatio, New(Options{}).MaxDebtRatio())
}

func TestSimulate_CurrencySuffix(t *testing.T) {
	calc := New(Options{MaxDebtRatio: 33, CurrencySuffix: "XAF"})
	req := domain.CreditRequest{RequestedAmount: 5_000_000, DurationMonths: 12, MonthlyIncome: 300_000}

	result, err := calc.Simulate(req, product(12))
	require.NoError(t, err)
	require.False(t, result.Eligible)
	require.GreaterOrEqual(t, len(result.Recommendations), 2)
	assert.Contains(t, result.Recommendations[1], " XAF.")
}
