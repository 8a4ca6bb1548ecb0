package domain

import "time"

// Bank is the institution offering credit products.
type Bank struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

// CreditProduct is a bank's credit offering.
type CreditProduct struct {
	ID                  string     `json:"id" db:"id"`
	BankID              string     `json:"bank_id" db:"bank_id"`
	Name                string     `json:"name" db:"name"`
	Type                CreditType `json:"type" db:"type"`
	MinAmount           float64    `json:"min_amount" db:"min_amount"`
	MaxAmount           float64    `json:"max_amount" db:"max_amount"`
	MinDurationMonths   int        `json:"min_duration_months" db:"min_duration_months"`
	MaxDurationMonths   int        `json:"max_duration_months" db:"max_duration_months"`
	AverageRate         float64    `json:"average_rate" db:"average_rate"`
	ProcessingTimeHours int        `json:"processing_time_hours" db:"processing_time_hours"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	Bank                Bank       `json:"bank" db:"bank"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Available reports whether both the product and its bank are active.
func (p CreditProduct) Available() bool {
	return p.IsActive && p.Bank.IsActive
}

// Accepts reports whether req can be compared against p: the product and bank
// are active, the credit type matches when the request names one, and the
// amount and duration fall within the product bounds.
func (p CreditProduct) Accepts(req CreditRequest) bool {
	if !p.Available() {
		return false
	}
	if req.CreditType != "" && req.CreditType != p.Type {
		return false
	}
	if req.RequestedAmount < p.MinAmount || req.RequestedAmount > p.MaxAmount {
		return false
	}
	return req.DurationMonths >= p.MinDurationMonths && req.DurationMonths <= p.MaxDurationMonths
}
