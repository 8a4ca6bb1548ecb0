package domain

// AmortizationEntry is one month of an amortization schedule.
type AmortizationEntry struct {
	Month            int     `json:"month"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// ScheduleRequest asks for an amortization schedule. MaxRows truncates the
// output when positive.
type ScheduleRequest struct {
	Amount            float64 `json:"amount" validate:"required,gt=0"`
	AnnualRatePercent float64 `json:"annual_rate" validate:"gte=0,lte=100"`
	DurationMonths    int     `json:"duration_months" validate:"required,gt=0,lte=600"`
	MaxRows           int     `json:"max_rows" validate:"gte=0"`
}

type ScheduleResponse struct {
	MonthlyPayment float64             `json:"monthly_payment"`
	Schedule       []AmortizationEntry `json:"schedule"`
}
