// Package validator checks applicant and credit request input. Field rules
// are struct tags evaluated by go-playground/validator; contextual rules
// (income floors, credit type bounds, debt ratio, plausibility) are applied
// on top. Checks are pure and never clamp values.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/credit-engine/internal/calculator"
	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/formatter"
)

var phonePattern = regexp.MustCompile(`^(\+237)?[236]\d{8}$`)
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "")

// Warning is a non-blocking advisory.
type Warning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarningHighDebtRatio   = "HIGH_DEBT_RATIO"
	WarningImplausibleLoan = "IMPLAUSIBLE_AMOUNT"
)

// Result separates blocking per-field errors from advisory warnings.
type Result struct {
	Errors   map[string][]string `json:"errors"`
	Warnings []Warning           `json:"warnings"`
}

func newResult() Result {
	return Result{Errors: map[string][]string{}, Warnings: []Warning{}}
}

// Valid reports whether no blocking error was found.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(field, message string) {
	r.Errors[field] = append(r.Errors[field], message)
}

// merge appends other into r, skipping messages r already holds for a field.
func (r *Result) merge(other Result) {
	for field, messages := range other.Errors {
		for _, m := range messages {
			if !slices.Contains(r.Errors[field], m) {
				r.Errors[field] = append(r.Errors[field], m)
			}
		}
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Rules holds the contextual thresholds.
type Rules struct {
	IndividualMinIncome  float64
	BusinessMinIncome    float64
	SoftDebtRatio        float64
	HardDebtRatio        float64
	PlausibilityMultiple float64
	CurrencySuffix       string
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		IndividualMinIncome:  200_000,
		BusinessMinIncome:    500_000,
		SoftDebtRatio:        33,
		HardDebtRatio:        40,
		PlausibilityMultiple: 60,
		CurrencySuffix:       formatter.DefaultCurrencySuffix,
	}
}

// RulesFromConfig reads Rules from the business configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		IndividualMinIncome:  cfg.Business.IndividualMinIncome,
		BusinessMinIncome:    cfg.Business.BusinessMinIncome,
		SoftDebtRatio:        cfg.GetMaxDebtRatio(),
		HardDebtRatio:        cfg.GetHardDebtRatio(),
		PlausibilityMultiple: cfg.Business.PlausibilityMultiple,
		CurrencySuffix:       cfg.Business.CurrencySuffix,
	}
}

// Validator evaluates struct tags and contextual rules.
type Validator struct {
	validate *validator.Validate
	rules    Rules
	money    formatter.Formatter
}

func New(rules Rules) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil functions.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(phoneSeparators.Replace(fl.Field().String()))
	})
	_ = v.RegisterValidation("credit_type", func(fl validator.FieldLevel) bool {
		return domain.CreditType(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v, rules: rules, money: formatter.New(rules.CurrencySuffix)}
}

// Struct validates the tags of s and returns per-field messages, or nil when
// s is valid. Errors that are not field errors are reported under "_".
func (v *Validator) Struct(s any) map[string][]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string][]string{"_": {err.Error()}}
	}

	out := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "credit_type":
		return "must be a known credit type"
	default:
		return "is invalid"
	}
}

// ValidateApplicant checks the applicant profile and the income floor for the
// client type.
func (v *Validator) ValidateApplicant(profile domain.ApplicantProfile, monthlyIncome float64) Result {
	res := newResult()
	for field, messages := range v.Struct(profile) {
		res.Errors[field] = messages
	}

	var floor float64
	switch profile.ClientType {
	case domain.ClientTypeIndividual:
		floor = v.rules.IndividualMinIncome
	case domain.ClientTypeBusiness:
		floor = v.rules.BusinessMinIncome
	}
	if floor > 0 && monthlyIncome < floor {
		res.addError("monthly_income", fmt.Sprintf("must be at least %s for client type %s", v.money.Currency(floor), profile.ClientType))
	}

	return res
}

// CheckRequest applies the field rules, the credit type bounds and the down
// payment rule, without any projection.
func (v *Validator) CheckRequest(req domain.CreditRequest) Result {
	res := newResult()
	for field, messages := range v.Struct(req) {
		res.Errors[field] = messages
	}

	if bounds, ok := req.CreditType.Bounds(); ok {
		if req.RequestedAmount > 0 && (req.RequestedAmount < bounds.MinAmount || req.RequestedAmount > bounds.MaxAmount) {
			res.addError("requested_amount", fmt.Sprintf("must be between %s and %s for %s credit",
				v.money.Currency(bounds.MinAmount), v.money.Currency(bounds.MaxAmount), req.CreditType))
		}
		if req.DurationMonths > 0 && (req.DurationMonths < bounds.MinDuration || req.DurationMonths > bounds.MaxDuration) {
			res.addError("duration_months", fmt.Sprintf("must be between %d and %d months for %s credit",
				bounds.MinDuration, bounds.MaxDuration, req.CreditType))
		}
	}

	if req.RequestedAmount > 0 && req.DownPayment >= req.RequestedAmount {
		res.addError("down_payment", "must be lower than the requested amount")
	}

	return res
}

// ValidateRequest is CheckRequest plus the projected debt ratio at
// estimatedRate and the amount-to-income plausibility rule.
func (v *Validator) ValidateRequest(req domain.CreditRequest, estimatedRate float64) Result {
	res := v.CheckRequest(req)

	if req.MonthlyIncome <= 0 {
		return res
	}

	if payment, err := calculator.MonthlyPayment(req.Principal(), estimatedRate, req.DurationMonths); err == nil {
		ratio, _ := calculator.DebtRatio(payment, req.CurrentDebts, req.MonthlyIncome)
		switch {
		case ratio > v.rules.HardDebtRatio:
			res.addError("debt_ratio", fmt.Sprintf("projected debt ratio of %s exceeds %s: the request will likely be rejected",
				formatter.Percentage(ratio, 1), formatter.Percentage(v.rules.HardDebtRatio, 0)))
		case ratio > v.rules.SoftDebtRatio:
			res.Warnings = append(res.Warnings, Warning{
				Field: "debt_ratio",
				Code:  WarningHighDebtRatio,
				Message: fmt.Sprintf("projected debt ratio of %s is above the recommended %s",
					formatter.Percentage(ratio, 1), formatter.Percentage(v.rules.SoftDebtRatio, 0)),
			})
		}
	}

	if v.rules.PlausibilityMultiple > 0 && req.RequestedAmount > v.rules.PlausibilityMultiple*req.MonthlyIncome {
		res.Warnings = append(res.Warnings, Warning{
			Field:   "requested_amount",
			Code:    WarningImplausibleLoan,
			Message: fmt.Sprintf("requested amount is more than %.0f times the monthly income", v.rules.PlausibilityMultiple),
		})
	}

	return res
}

// ValidateAgainstProduct checks that req fits product without adjusting it.
func (v *Validator) ValidateAgainstProduct(req domain.CreditRequest, product domain.CreditProduct) Result {
	res := newResult()

	if !product.IsActive {
		res.addError("product_id", "product is not active")
	}
	if !product.Bank.IsActive {
		res.addError("product_id", "bank is not active")
	}
	if req.CreditType != "" && req.CreditType != product.Type {
		res.addError("credit_type", fmt.Sprintf("product only offers %s credit", product.Type))
	}
	if req.RequestedAmount < product.MinAmount || req.RequestedAmount > product.MaxAmount {
		res.addError("requested_amount", fmt.Sprintf("must be between %s and %s for this product",
			v.money.Currency(product.MinAmount), v.money.Currency(product.MaxAmount)))
	}
	if req.DurationMonths < product.MinDurationMonths || req.DurationMonths > product.MaxDurationMonths {
		res.addError("duration_months", fmt.Sprintf("must be between %d and %d months for this product",
			product.MinDurationMonths, product.MaxDurationMonths))
	}

	return res
}

// ValidateInput checks the tags of a request envelope such as
// domain.ComparisonRequest together with CheckRequest of the request it carries.
func (v *Validator) ValidateInput(envelope any, req domain.CreditRequest) Result {
	res := v.fields(envelope)
	res.merge(v.CheckRequest(req))
	return res
}

// Validate runs the applicant and request checks together, plus the tags of
// the request itself such as the estimated rate bounds.
func (v *Validator) Validate(in domain.ValidationRequest) Result {
	res := v.ValidateApplicant(in.Applicant, in.Request.MonthlyIncome)
	res.merge(v.ValidateRequest(in.Request, in.EstimatedRate))
	res.merge(v.fields(in))
	return res
}

func (v *Validator) fields(s any) Result {
	res := newResult()
	for field, messages := range v.Struct(s) {
		res.Errors[field] = messages
	}
	return res
}
