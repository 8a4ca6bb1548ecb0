package domain

// CreditType identifies a family of credit products.
type CreditType string

const (
	CreditTypeConsumption CreditType = "consommation"
	CreditTypeAuto        CreditType = "auto"
	CreditTypeRealEstate  CreditType = "immobilier"
	CreditTypeInvestment  CreditType = "investissement"
	CreditTypeEquipment   CreditType = "equipement"
	CreditTypeRenovation  CreditType = "travaux"
)

// CreditTypes lists every supported credit type in display order.
var CreditTypes = []CreditType{
	CreditTypeConsumption,
	CreditTypeAuto,
	CreditTypeRealEstate,
	CreditTypeInvestment,
	CreditTypeEquipment,
	CreditTypeRenovation,
}

// IsValid reports whether t is one of the supported credit types.
func (t CreditType) IsValid() bool {
	_, ok := creditTypeBounds[t]
	return ok
}

// CreditTypeBounds holds the amount and duration range accepted for a credit type.
type CreditTypeBounds struct {
	MinAmount   float64 `json:"min_amount"`
	MaxAmount   float64 `json:"max_amount"`
	MinDuration int     `json:"min_duration_months"`
	MaxDuration int     `json:"max_duration_months"`
}

var creditTypeBounds = map[CreditType]CreditTypeBounds{
	CreditTypeConsumption: {MinAmount: 100_000, MaxAmount: 10_000_000, MinDuration: 3, MaxDuration: 60},
	CreditTypeAuto:        {MinAmount: 1_000_000, MaxAmount: 50_000_000, MinDuration: 12, MaxDuration: 84},
	CreditTypeRealEstate:  {MinAmount: 5_000_000, MaxAmount: 500_000_000, MinDuration: 60, MaxDuration: 300},
	CreditTypeInvestment:  {MinAmount: 2_000_000, MaxAmount: 200_000_000, MinDuration: 12, MaxDuration: 120},
	CreditTypeEquipment:   {MinAmount: 500_000, MaxAmount: 100_000_000, MinDuration: 6, MaxDuration: 84},
	CreditTypeRenovation:  {MinAmount: 500_000, MaxAmount: 50_000_000, MinDuration: 6, MaxDuration: 120},
}

// Bounds returns the configured range for t.
func (t CreditType) Bounds() (CreditTypeBounds, bool) {
	b, ok := creditTypeBounds[t]
	return b, ok
}

// CreditRequest holds the inputs of a simulation. It is passed by value and
// never modified by the engine.
type CreditRequest struct {
	RequestedAmount float64    `json:"requested_amount" validate:"required,gt=0"`
	DurationMonths  int        `json:"duration_months" validate:"required,gt=0,lte=600"`
	MonthlyIncome   float64    `json:"monthly_income" validate:"required,gt=0"`
	CurrentDebts    float64    `json:"current_debts" validate:"gte=0"`
	DownPayment     float64    `json:"down_payment" validate:"gte=0"`
	CreditType      CreditType `json:"credit_type,omitempty" validate:"omitempty,credit_type"`
}

// Principal is the financed amount once the down payment is deducted.
func (r CreditRequest) Principal() float64 {
	return r.RequestedAmount - r.DownPayment
}
