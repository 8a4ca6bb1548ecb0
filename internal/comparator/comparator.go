// Package comparator scores, sorts, filters and summarises credit offers
// computed for a single request.
package comparator

import (
	"math"
	"slices"
	"sort"
	"time"

	conciter "github.com/sourcegraph/conc/iter"

	"github.com/segyhp/credit-engine/internal/calculator"
	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/pkg/utils"
)

const (
	// RateCeiling is the practical annual rate ceiling, in percent, used to normalise rates.
	RateCeiling = 20.0
	// ProcessingCeilingHours normalises processing time against one week.
	ProcessingCeilingHours = 168.0
	// DefaultPaymentCeiling normalises monthly payments when none is configured.
	DefaultPaymentCeiling = 5_000_000.0
)

// Weights balances the four sub-scores of an offer.
type Weights struct {
	Rate        float64 `json:"rate"`
	Eligibility float64 `json:"eligibility"`
	Speed       float64 `json:"speed"`
	Payment     float64 `json:"payment"`
}

// DefaultWeights is the canonical weighting: rate 0.4, eligibility 0.3,
// speed 0.2, payment 0.1.
var DefaultWeights = Weights{Rate: 0.4, Eligibility: 0.3, Speed: 0.2, Payment: 0.1}

// Normalize scales w so its components sum to 1. A zero sum returns DefaultWeights.
func (w Weights) Normalize() Weights {
	sum := w.Rate + w.Eligibility + w.Speed + w.Payment
	if sum <= 0 {
		return DefaultWeights
	}
	return Weights{
		Rate:        w.Rate / sum,
		Eligibility: w.Eligibility / sum,
		Speed:       w.Speed / sum,
		Payment:     w.Payment / sum,
	}
}

// Score returns the weighted offer score in [0, 1].
func Score(offer domain.Offer, w Weights, paymentCeiling float64) float64 {
	w = w.Normalize()
	if paymentCeiling <= 0 {
		paymentCeiling = DefaultPaymentCeiling
	}

	rate := utils.Clamp((RateCeiling-offer.Result.AppliedRate)/RateCeiling, 0, 1)
	speed := utils.Clamp((ProcessingCeilingHours-float64(offer.Product.ProcessingTimeHours))/ProcessingCeilingHours, 0, 1)
	payment := utils.Clamp((paymentCeiling-offer.Result.MonthlyPayment)/paymentCeiling, 0, 1)
	eligibility := 0.0
	if offer.Result.Eligible {
		eligibility = 1
	}

	return utils.Clamp(w.Rate*rate+w.Eligibility*eligibility+w.Speed*speed+w.Payment*payment, 0, 1)
}

func less(criterion domain.SortCriterion) func(a, b domain.Offer) bool {
	switch criterion {
	case domain.SortByPayment:
		return func(a, b domain.Offer) bool { return a.Result.MonthlyPayment < b.Result.MonthlyPayment }
	case domain.SortByProcessingTime:
		return func(a, b domain.Offer) bool { return a.Product.ProcessingTimeHours < b.Product.ProcessingTimeHours }
	case domain.SortByEligibility:
		return func(a, b domain.Offer) bool { return a.Result.Eligible && !b.Result.Eligible }
	case domain.SortByScore:
		return func(a, b domain.Offer) bool { return a.Score < b.Score }
	default:
		return func(a, b domain.Offer) bool { return a.Result.AppliedRate < b.Result.AppliedRate }
	}
}

// Sort returns a stably sorted copy of offers. Unknown criteria sort by rate.
// Eligibility in ascending order puts eligible offers first.
func Sort(offers []domain.Offer, criterion domain.SortCriterion, order domain.SortOrder) []domain.Offer {
	sorted := slices.Clone(offers)
	lt := less(criterion)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == domain.SortDesc {
			return lt(sorted[j], sorted[i])
		}
		return lt(sorted[i], sorted[j])
	})
	return sorted
}

// Filter keeps the offers matching every enabled predicate of f.
func Filter(offers []domain.Offer, f domain.OfferFilter) []domain.Offer {
	out := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if f.MaxRate > 0 && o.Result.AppliedRate > f.MaxRate {
			continue
		}
		if f.MaxPayment > 0 && o.Result.MonthlyPayment > f.MaxPayment {
			continue
		}
		if f.MaxProcessingHours > 0 && o.Product.ProcessingTimeHours > f.MaxProcessingHours {
			continue
		}
		if f.EligibleOnly && !o.Result.Eligible {
			continue
		}
		if len(f.BankIDs) > 0 && !slices.Contains(f.BankIDs, o.Product.BankID) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Best returns the best offer by criterion among eligible offers, or among
// all offers when none is eligible. rate and payment pick the lowest value,
// score the highest; other criteria fall back to score. Ties keep the first.
func Best(offers []domain.Offer, criterion domain.SortCriterion) (domain.Offer, bool) {
	pool := Filter(offers, domain.OfferFilter{EligibleOnly: true})
	if len(pool) == 0 {
		pool = offers
	}
	if len(pool) == 0 {
		return domain.Offer{}, false
	}

	better := func(a, b domain.Offer) bool { return a.Score > b.Score }
	switch criterion {
	case domain.SortByRate:
		better = func(a, b domain.Offer) bool { return a.Result.AppliedRate < b.Result.AppliedRate }
	case domain.SortByPayment:
		better = func(a, b domain.Offer) bool { return a.Result.MonthlyPayment < b.Result.MonthlyPayment }
	}

	best := pool[0]
	for _, o := range pool[1:] {
		if better(o, best) {
			best = o
		}
	}
	return best, true
}

// ComputeStatistics summarises offers. Savings compare the total cost of the
// most and least expensive eligible offers.
func ComputeStatistics(offers []domain.Offer) domain.Statistics {
	stats := domain.Statistics{Count: len(offers)}
	if len(offers) == 0 {
		return stats
	}

	stats.BestRate = math.Inf(1)
	stats.MinMonthlyPayment = math.Inf(1)
	rateSum := 0.0
	minCost, maxCost := math.Inf(1), math.Inf(-1)

	for _, o := range offers {
		rateSum += o.Result.AppliedRate
		stats.BestRate = math.Min(stats.BestRate, o.Result.AppliedRate)
		stats.MinMonthlyPayment = math.Min(stats.MinMonthlyPayment, o.Result.MonthlyPayment)
		stats.MaxMonthlyPayment = math.Max(stats.MaxMonthlyPayment, o.Result.MonthlyPayment)

		if o.Result.Eligible {
			stats.EligibleCount++
			minCost = math.Min(minCost, o.Result.TotalCost)
			maxCost = math.Max(maxCost, o.Result.TotalCost)
		}
	}

	stats.AverageRate = utils.RoundTo(rateSum/float64(len(offers)), 4)
	if stats.EligibleCount >= 2 {
		stats.MaxSavings = utils.RoundCurrency(maxCost - minCost)
	}
	return stats
}

// Comparator simulates a request against a product catalogue.
type Comparator struct {
	calc           *calculator.Calculator
	weights        Weights
	paymentCeiling float64
}

func New(calc *calculator.Calculator, weights Weights, paymentCeiling float64) *Comparator {
	if paymentCeiling <= 0 {
		paymentCeiling = DefaultPaymentCeiling
	}
	return &Comparator{calc: calc, weights: weights.Normalize(), paymentCeiling: paymentCeiling}
}

// NewFromConfig builds a Comparator with the configured weights and ceiling.
func NewFromConfig(calc *calculator.Calculator, cfg *config.Config) *Comparator {
	w := cfg.Business.Weights
	return New(calc, Weights{Rate: w.Rate, Eligibility: w.Eligibility, Speed: w.Speed, Payment: w.Payment}, cfg.Business.PaymentCeiling)
}

// Weights returns the normalised weights in use.
func (c *Comparator) Weights() Weights {
	return c.weights
}

// Compare simulates req against every product accepting it and returns the
// scored offers in catalogue order with their statistics. Products whose
// simulation fails are skipped; the first such error is returned alongside
// the set when no offer could be computed.
func (c *Comparator) Compare(req domain.CreditRequest, products []domain.CreditProduct) (domain.ComparisonSet, error) {
	compatible := make([]domain.CreditProduct, 0, len(products))
	for _, p := range products {
		if p.Accepts(req) {
			compatible = append(compatible, p)
		}
	}

	type outcome struct {
		offer domain.Offer
		err   error
	}

	// Each simulation is independent; Map keeps the input order.
	outcomes := conciter.Map(compatible, func(p *domain.CreditProduct) outcome {
		result, err := c.calc.Simulate(req, *p)
		if err != nil {
			return outcome{err: err}
		}
		offer := domain.Offer{Product: *p, Result: result}
		offer.Score = utils.RoundTo(Score(offer, c.weights, c.paymentCeiling), 4)
		return outcome{offer: offer}
	})

	set := domain.ComparisonSet{Request: req, Offers: make([]domain.Offer, 0, len(outcomes)), CreatedAt: time.Now().UTC()}
	var firstErr error
	for _, o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		set.Offers = append(set.Offers, o.offer)
	}
	set.Statistics = ComputeStatistics(set.Offers)

	if len(set.Offers) == 0 && firstErr != nil {
		return set, firstErr
	}
	return set, nil
}

// Refine applies f and then sorts by criterion/order, recomputing statistics.
// An empty criterion keeps the current order.
func Refine(set domain.ComparisonSet, f domain.OfferFilter, criterion domain.SortCriterion, order domain.SortOrder) domain.ComparisonSet {
	offers := Filter(set.Offers, f)
	if criterion != "" {
		offers = Sort(offers, criterion, order)
	}
	set.Offers = offers
	set.Statistics = ComputeStatistics(offers)
	return set
}
