package domain

import "time"

// SimulationResult is the outcome of simulating one request against one product.
type SimulationResult struct {
	AppliedRate          float64             `json:"applied_rate"`
	MonthlyPayment       float64             `json:"monthly_payment"`
	TotalCost            float64             `json:"total_cost"`
	TotalInterest        float64             `json:"total_interest"`
	DebtRatio            float64             `json:"debt_ratio"`
	Eligible             bool                `json:"eligible"`
	Recommendations      []string            `json:"recommendations"`
	AmortizationSchedule []AmortizationEntry `json:"amortization_schedule,omitempty"`
}

// Offer pairs a product with its simulation and comparative score.
type Offer struct {
	Product CreditProduct    `json:"product"`
	Result  SimulationResult `json:"result"`
	Score   float64          `json:"score"`
}

// Statistics summarises a comparison set.
type Statistics struct {
	Count             int     `json:"count"`
	EligibleCount     int     `json:"eligible_count"`
	BestRate          float64 `json:"best_rate"`
	AverageRate       float64 `json:"average_rate"`
	MinMonthlyPayment float64 `json:"min_monthly_payment"`
	MaxMonthlyPayment float64 `json:"max_monthly_payment"`
	MaxSavings        float64 `json:"max_savings"`
}

// ComparisonSet is the ordered set of offers computed for one request.
type ComparisonSet struct {
	ID         string        `json:"id,omitempty"`
	Request    CreditRequest `json:"request"`
	Offers     []Offer       `json:"offers"`
	Statistics Statistics    `json:"statistics"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SortCriterion names the key used to order offers.
type SortCriterion string

const (
	SortByRate           SortCriterion = "rate"
	SortByPayment        SortCriterion = "payment"
	SortByProcessingTime SortCriterion = "processing_time"
	SortByEligibility    SortCriterion = "eligibility"
	SortByScore          SortCriterion = "score"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// OfferFilter is a conjunctive filter. Zero values disable the matching predicate.
type OfferFilter struct {
	MaxRate            float64  `json:"max_rate,omitempty" validate:"gte=0"`
	MaxPayment         float64  `json:"max_payment,omitempty" validate:"gte=0"`
	MaxProcessingHours int      `json:"max_processing_hours,omitempty" validate:"gte=0"`
	EligibleOnly       bool     `json:"eligible_only,omitempty"`
	BankIDs            []string `json:"bank_ids,omitempty"`
}

// DTOs for requests and responses

type SimulationRequest struct {
	ProductID string        `json:"product_id" validate:"required"`
	Request   CreditRequest `json:"request"`
}

type ComparisonRequest struct {
	Request CreditRequest `json:"request"`
	Filter  OfferFilter   `json:"filter"`
	SortBy  SortCriterion `json:"sort_by,omitempty" validate:"omitempty,oneof=rate payment processing_time eligibility score"`
	Order   SortOrder     `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Save    bool          `json:"save,omitempty"`
}

type CapacityRequest struct {
	MonthlyIncome     float64 `json:"monthly_income" validate:"required,gt=0"`
	CurrentDebts      float64 `json:"current_debts" validate:"gte=0"`
	AnnualRatePercent float64 `json:"annual_rate" validate:"gte=0,lte=100"`
	DurationMonths    int     `json:"duration_months" validate:"required,gt=0,lte=600"`
	MaxDebtRatio      float64 `json:"max_debt_ratio" validate:"gte=0,lte=100"`
}

type CapacityResponse struct {
	BorrowingCapacity float64 `json:"borrowing_capacity"`
	MaxMonthlyPayment float64 `json:"max_monthly_payment"`
}

type ValidationRequest struct {
	Applicant     ApplicantProfile `json:"applicant"`
	Request       CreditRequest    `json:"request"`
	EstimatedRate float64          `json:"estimated_rate" validate:"gte=0,lte=100"`
}
