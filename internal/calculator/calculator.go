// Package calculator implements the annuity arithmetic behind credit
// simulations: monthly payment, costs, debt ratio, borrowing capacity and
// amortization schedules. Every function is pure.
package calculator

import (
	"errors"
	"iter"
	"math"

	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/pkg/utils"
)

// DefaultMaxDebtRatio is the eligibility ceiling, in percent, used when none is configured.
const DefaultMaxDebtRatio = 33.0

// MaxDurationMonths bounds every duration the calculator accepts (50 years).
const MaxDurationMonths = 600

var (
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrInvalidDuration = errors.New("duration must be between 1 and 600 months")
	ErrInvalidRate     = errors.New("rate must be a finite, non-negative percentage")
	ErrInvalidIncome   = errors.New("monthly income must be greater than 0")
)

func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

func validDuration(months int) bool {
	return months > 0 && months <= MaxDurationMonths
}

func checkInputs(amount, annualRatePercent float64, months int) error {
	if !utils.IsFinite(amount) || amount <= 0 {
		return ErrInvalidAmount
	}
	if !validDuration(months) {
		return ErrInvalidDuration
	}
	if !utils.IsFinite(annualRatePercent) || annualRatePercent < 0 {
		return ErrInvalidRate
	}
	return nil
}

// MonthlyPayment returns the fixed payment that amortizes amount over months
// at annualRatePercent. The result is not rounded.
func MonthlyPayment(amount, annualRatePercent float64, months int) (float64, error) {
	if err := checkInputs(amount, annualRatePercent, months); err != nil {
		return 0, err
	}

	if annualRatePercent == 0 {
		return amount / float64(months), nil
	}

	r := monthlyRate(annualRatePercent)
	factor := math.Pow(1+r, float64(months))
	return amount * r * factor / (factor - 1), nil
}

// TotalCost is the sum of all payments.
func TotalCost(monthlyPayment float64, months int) float64 {
	return monthlyPayment * float64(months)
}

// TotalInterest is what is paid on top of the principal.
func TotalInterest(totalCost, principal float64) float64 {
	return totalCost - principal
}

// DebtRatio returns the share of income, in percent, absorbed by the new
// payment plus existing debts.
func DebtRatio(monthlyPayment, currentDebts, monthlyIncome float64) (float64, error) {
	if !utils.IsFinite(monthlyIncome) || monthlyIncome <= 0 {
		return 0, ErrInvalidIncome
	}
	return (monthlyPayment + currentDebts) / monthlyIncome * 100, nil
}

// MaxMonthlyPayment returns what is left for a new credit once existing debts
// are deducted from the income share allowed by maxDebtRatio. It is never negative.
func MaxMonthlyPayment(monthlyIncome, currentDebts, maxDebtRatio float64) float64 {
	if maxDebtRatio <= 0 {
		maxDebtRatio = DefaultMaxDebtRatio
	}
	available := monthlyIncome*maxDebtRatio/100 - currentDebts
	if available <= 0 {
		return 0
	}
	return available
}

// BorrowingCapacity returns the largest principal whose annuity payment fits
// in the payment budget left by maxDebtRatio. A non-positive maxDebtRatio
// falls back to DefaultMaxDebtRatio.
func BorrowingCapacity(monthlyIncome, currentDebts, annualRatePercent float64, months int, maxDebtRatio float64) (float64, error) {
	if !utils.IsFinite(monthlyIncome) || monthlyIncome <= 0 {
		return 0, ErrInvalidIncome
	}
	if !validDuration(months) {
		return 0, ErrInvalidDuration
	}
	if !utils.IsFinite(annualRatePercent) || annualRatePercent < 0 {
		return 0, ErrInvalidRate
	}

	available := MaxMonthlyPayment(monthlyIncome, currentDebts, maxDebtRatio)
	if available == 0 {
		return 0, nil
	}

	if annualRatePercent == 0 {
		return available * float64(months), nil
	}

	r := monthlyRate(annualRatePercent)
	return available * (1 - math.Pow(1+r, -float64(months))) / r, nil
}

// Schedule returns the amortization schedule as a lazy sequence. The running
// balance and payment keep full precision; each emitted row is rounded to the
// cent with principal derived as payment minus interest, so the identity
// holds on every row but the last, where the principal absorbs the residual
// balance. Ranging over the sequence again recomputes it from month 1.
func Schedule(amount, annualRatePercent float64, months int) (iter.Seq[domain.AmortizationEntry], error) {
	payment, err := MonthlyPayment(amount, annualRatePercent, months)
	if err != nil {
		return nil, err
	}
	r := monthlyRate(annualRatePercent)

	return func(yield func(domain.AmortizationEntry) bool) {
		balance := amount
		for month := 1; month <= months; month++ {
			interest := balance * r
			principal := payment - interest

			entry := domain.AmortizationEntry{Month: month}
			if month == months {
				principal = balance
				entry.Payment = utils.RoundCurrency(principal + interest)
				entry.Principal = utils.RoundCurrency(principal)
				entry.Interest = utils.RoundCurrency(interest)
			} else {
				entry.Payment = utils.RoundCurrency(payment)
				entry.Interest = utils.RoundCurrency(interest)
				entry.Principal = utils.RoundCurrency(entry.Payment - entry.Interest)
			}

			balance = math.Max(0, balance-principal)
			entry.RemainingBalance = utils.RoundCurrency(balance)

			if !yield(entry) {
				return
			}
		}
	}, nil
}

// GenerateAmortizationSchedule collects Schedule into a slice, stopping after
// maxRows entries when maxRows is positive.
func GenerateAmortizationSchedule(amount, annualRatePercent float64, months, maxRows int) ([]domain.AmortizationEntry, error) {
	seq, err := Schedule(amount, annualRatePercent, months)
	if err != nil {
		return nil, err
	}

	size := months
	if maxRows > 0 && maxRows < months {
		size = maxRows
	}

	entries := make([]domain.AmortizationEntry, 0, size)
	for entry := range seq {
		entries = append(entries, entry)
		if len(entries) == size {
			break
		}
	}
	return entries, nil
}
