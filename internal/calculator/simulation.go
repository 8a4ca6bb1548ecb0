package calculator

import (
	"fmt"

	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/formatter"
	"github.com/segyhp/credit-engine/pkg/utils"
)

// Options tunes the eligibility ceiling and the thresholds behind recommendations.
type Options struct {
	MaxDebtRatio          float64
	LongDurationThreshold int
	HighRateThreshold     float64
	PreviewRows           int
	CurrencySuffix        string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxDebtRatio:          DefaultMaxDebtRatio,
		LongDurationThreshold: 120,
		HighRateThreshold:     15,
		PreviewRows:           12,
		CurrencySuffix:        formatter.DefaultCurrencySuffix,
	}
}

// OptionsFromConfig reads Options from the business configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxDebtRatio:          cfg.GetMaxDebtRatio(),
		LongDurationThreshold: cfg.Business.LongDurationThreshold,
		HighRateThreshold:     cfg.Business.HighRateThreshold,
		PreviewRows:           cfg.Business.SchedulePreviewRows,
		CurrencySuffix:        cfg.Business.CurrencySuffix,
	}
}

// Calculator turns a request and a product into a SimulationResult. It holds
// no state besides its options and is safe for concurrent use.
type Calculator struct {
	opts  Options
	money formatter.Formatter
}

func New(opts Options) *Calculator {
	if opts.MaxDebtRatio <= 0 {
		opts.MaxDebtRatio = DefaultMaxDebtRatio
	}
	return &Calculator{opts: opts, money: formatter.New(opts.CurrencySuffix)}
}

// MaxDebtRatio returns the eligibility ceiling in percent.
func (c *Calculator) MaxDebtRatio() float64 {
	return c.opts.MaxDebtRatio
}

// Simulate computes the result of req against product. The monthly payment is
// rounded to the cent; total cost and interest derive from the rounded payment.
func (c *Calculator) Simulate(req domain.CreditRequest, product domain.CreditProduct) (domain.SimulationResult, error) {
	if !validDuration(req.DurationMonths) {
		return domain.SimulationResult{}, ErrInvalidDuration
	}
	if !utils.IsFinite(product.AverageRate) || product.AverageRate < 0 {
		return domain.SimulationResult{}, ErrInvalidRate
	}

	result := domain.SimulationResult{AppliedRate: product.AverageRate}
	principal := req.Principal()

	if principal > 0 {
		payment, err := MonthlyPayment(principal, product.AverageRate, req.DurationMonths)
		if err != nil {
			return domain.SimulationResult{}, err
		}
		result.MonthlyPayment = utils.RoundCurrency(payment)
		result.TotalCost = utils.RoundCurrency(TotalCost(result.MonthlyPayment, req.DurationMonths))
		result.TotalInterest = utils.RoundCurrency(TotalInterest(result.TotalCost, principal))
	}

	ratio, err := DebtRatio(result.MonthlyPayment, req.CurrentDebts, req.MonthlyIncome)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	result.DebtRatio = ratio
	result.Eligible = principal > 0 && ratio <= c.opts.MaxDebtRatio
	result.Recommendations = c.recommend(req, product, result)

	return result, nil
}

// SimulateWithSchedule is Simulate plus the amortization schedule, truncated
// to maxRows when positive. A negative maxRows uses the configured preview size.
func (c *Calculator) SimulateWithSchedule(req domain.CreditRequest, product domain.CreditProduct, maxRows int) (domain.SimulationResult, error) {
	result, err := c.Simulate(req, product)
	if err != nil {
		return result, err
	}
	if req.Principal() <= 0 {
		return result, nil
	}

	if maxRows < 0 {
		maxRows = c.opts.PreviewRows
	}
	schedule, err := GenerateAmortizationSchedule(req.Principal(), product.AverageRate, req.DurationMonths, maxRows)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	result.AmortizationSchedule = schedule
	return result, nil
}

func (c *Calculator) recommend(req domain.CreditRequest, product domain.CreditProduct, result domain.SimulationResult) []string {
	recs := []string{}
	principal := req.Principal()

	if principal <= 0 {
		return append(recs, "The down payment covers the requested amount: no financing is needed.")
	}

	ceiling := c.opts.MaxDebtRatio
	switch {
	case !result.Eligible:
		recs = append(recs, fmt.Sprintf("Debt ratio of %s exceeds the %s ceiling: extend the duration or reduce the amount.",
			formatter.Percentage(result.DebtRatio, 1), formatter.Percentage(ceiling, 0)))
		if capacity, err := BorrowingCapacity(req.MonthlyIncome, req.CurrentDebts, product.AverageRate, req.DurationMonths, ceiling); err == nil && capacity > 0 {
			recs = append(recs, fmt.Sprintf("At this rate and duration you can borrow up to %s.", c.money.Currency(capacity)))
		}
	case result.DebtRatio > ceiling-5:
		recs = append(recs, "Debt ratio is close to the ceiling: keep a safety margin for unexpected expenses.")
	case result.DebtRatio <= ceiling/2:
		recs = append(recs, "Comfortable debt ratio: a shorter duration would reduce the total interest.")
	}

	if c.opts.HighRateThreshold > 0 && product.AverageRate >= c.opts.HighRateThreshold {
		recs = append(recs, fmt.Sprintf("Rate of %s is high: compare with other banks or negotiate.", formatter.Percentage(product.AverageRate, 1)))
	}

	if c.opts.LongDurationThreshold > 0 && req.DurationMonths > c.opts.LongDurationThreshold {
		share := result.TotalInterest / principal * 100
		recs = append(recs, fmt.Sprintf("Over %s, interest amounts to %s of the principal.",
			formatter.Duration(req.DurationMonths), formatter.Percentage(share, 1)))
	}

	if req.DownPayment == 0 && (req.CreditType == domain.CreditTypeRealEstate || req.CreditType == domain.CreditTypeAuto) {
		recs = append(recs, "A down payment would lower the monthly payment and the total cost.")
	}

	return recs
}
