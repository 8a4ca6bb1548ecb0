package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/calculator"
	"github.com/segyhp/credit-engine/internal/comparator"
	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/exporter"
	"github.com/segyhp/credit-engine/internal/metrics"
	"github.com/segyhp/credit-engine/internal/repository"
	"github.com/segyhp/credit-engine/internal/validator"
	customError "github.com/segyhp/credit-engine/pkg/errors"
	"github.com/segyhp/credit-engine/pkg/utils"
)

type CreditService struct {
	products   repository.ProductRepository
	archive    *exporter.Archive
	calc       *calculator.Calculator
	comparator *comparator.Comparator
	validator  *validator.Validator
	metrics    *metrics.Collector
	logger     *zap.Logger
	config     *config.Config
}

func NewCreditService(
	products repository.ProductRepository,
	archive *exporter.Archive,
	metrics *metrics.Collector,
	logger *zap.Logger,
	config *config.Config,
) *CreditService {
	calc := calculator.New(calculator.OptionsFromConfig(config))
	return &CreditService{
		products:   products,
		archive:    archive,
		calc:       calc,
		comparator: comparator.NewFromConfig(calc, config),
		validator:  validator.New(validator.RulesFromConfig(config)),
		metrics:    metrics,
		logger:     logger,
		config:     config,
	}
}

// calculationError maps calculator sentinels onto the field they concern.
func calculationError(err error) error {
	field := ""
	switch {
	case errors.Is(err, calculator.ErrInvalidAmount):
		field = "requested_amount"
	case errors.Is(err, calculator.ErrInvalidDuration):
		field = "duration_months"
	case errors.Is(err, calculator.ErrInvalidRate):
		field = "annual_rate"
	case errors.Is(err, calculator.ErrInvalidIncome):
		field = "monthly_income"
	default:
		return customError.WrapInvalidInput(err)
	}
	return customError.WrapValidationFailed(map[string][]string{field: {err.Error()}})
}

func (s *CreditService) rejectIfInvalid(res validator.Result) error {
	if res.Valid() {
		return nil
	}
	s.metrics.RecordValidationFailure(res.Errors)
	return customError.WrapValidationFailed(res.Errors)
}

// Simulate runs the request against one product and returns the result with
// a schedule preview.
func (s *CreditService) Simulate(ctx context.Context, in domain.SimulationRequest) (domain.SimulationResult, error) {
	if err := s.rejectIfInvalid(s.validator.ValidateInput(in, in.Request)); err != nil {
		return domain.SimulationResult{}, err
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.SimulationResult{}, customError.WrapProductNotFound(in.ProductID)
	}
	if err != nil {
		return domain.SimulationResult{}, customError.WrapDatabaseError(err)
	}

	if res := s.validator.ValidateAgainstProduct(in.Request, *product); !res.Valid() {
		s.metrics.RecordValidationFailure(res.Errors)
		return domain.SimulationResult{}, customError.WrapProductIncompatible(product.ID, res.Errors)
	}

	result, err := s.calc.SimulateWithSchedule(in.Request, *product, -1)
	s.metrics.RecordSimulation(string(product.Type), result.Eligible, err)
	if err != nil {
		return domain.SimulationResult{}, calculationError(err)
	}

	s.logger.Debug("simulation computed",
		zap.String("product_id", product.ID),
		zap.Float64("monthly_payment", result.MonthlyPayment),
		zap.Bool("eligible", result.Eligible),
	)
	return result, nil
}

// Compare simulates the request against every compatible active product,
// then applies the filter and ordering. With Save set the set is archived
// and its ID filled in; a failed save returns the unsaved set with the error.
func (s *CreditService) Compare(ctx context.Context, in domain.ComparisonRequest) (domain.ComparisonSet, error) {
	if err := s.rejectIfInvalid(s.validator.ValidateInput(in, in.Request)); err != nil {
		return domain.ComparisonSet{}, err
	}

	products, err := s.products.ListActive(ctx, in.Request.CreditType)
	if err != nil {
		s.metrics.RecordComparison(0, 0, err)
		return domain.ComparisonSet{}, customError.WrapDatabaseError(err)
	}

	start := time.Now()
	set, err := s.comparator.Compare(in.Request, products)
	s.metrics.RecordComparison(len(set.Offers), time.Since(start), err)
	if err != nil {
		return domain.ComparisonSet{}, calculationError(err)
	}
	for _, o := range set.Offers {
		s.metrics.RecordSimulation(string(o.Product.Type), o.Result.Eligible, nil)
	}
	if len(set.Offers) == 0 {
		return domain.ComparisonSet{}, customError.WrapNoCompatibleProduct()
	}

	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = domain.SortByScore
	}
	order := in.Order
	if order == "" {
		order = domain.SortAsc
		if sortBy == domain.SortByScore {
			order = domain.SortDesc
		}
	}
	set = comparator.Refine(set, in.Filter, sortBy, order)

	s.logger.Info("comparison computed",
		zap.Int("catalogue", len(products)),
		zap.Int("offers", set.Statistics.Count),
		zap.Int("eligible", set.Statistics.EligibleCount),
	)

	if !in.Save {
		return set, nil
	}
	id, err := s.archive.Save(ctx, set)
	if err != nil {
		s.metrics.RecordExportError("archive_save")
		s.logger.Warn("comparison not saved", zap.Error(err))
		return set, customError.WrapExportError(err)
	}
	set.ID = id
	return set, nil
}

// GetComparison loads a saved comparison.
func (s *CreditService) GetComparison(ctx context.Context, id string) (domain.ComparisonSet, error) {
	set, err := s.archive.Load(ctx, id)
	if errors.Is(err, exporter.ErrNotFound) {
		return domain.ComparisonSet{}, customError.WrapComparisonNotFound(id)
	}
	if err != nil {
		s.metrics.RecordExportError("archive_load")
		return domain.ComparisonSet{}, customError.WrapCacheError(err)
	}
	return set, nil
}

// ExportCSV renders set as CSV and returns it with a download file name.
func (s *CreditService) ExportCSV(_ context.Context, set domain.ComparisonSet) (string, string, error) {
	out, err := exporter.CSV(set)
	if err != nil {
		s.metrics.RecordExportError("csv")
		return "", "", customError.WrapExportError(err)
	}
	return out, exporter.Filename(set, "csv"), nil
}

// ExportJSON renders set as indented JSON and returns it with a download file name.
func (s *CreditService) ExportJSON(_ context.Context, set domain.ComparisonSet) ([]byte, string, error) {
	out, err := exporter.JSON(set)
	if err != nil {
		s.metrics.RecordExportError("json")
		return nil, "", customError.WrapExportError(err)
	}
	return out, exporter.Filename(set, "json"), nil
}

// BorrowingCapacity returns the largest principal repayable within the debt
// ratio ceiling. A zero ratio uses the configured ceiling.
func (s *CreditService) BorrowingCapacity(_ context.Context, in domain.CapacityRequest) (domain.CapacityResponse, error) {
	if fields := s.validator.Struct(in); fields != nil {
		s.metrics.RecordValidationFailure(fields)
		return domain.CapacityResponse{}, customError.WrapValidationFailed(fields)
	}

	ratio := in.MaxDebtRatio
	if ratio <= 0 {
		ratio = s.calc.MaxDebtRatio()
	}

	capacity, err := calculator.BorrowingCapacity(in.MonthlyIncome, in.CurrentDebts, in.AnnualRatePercent, in.DurationMonths, ratio)
	if err != nil {
		return domain.CapacityResponse{}, calculationError(err)
	}

	return domain.CapacityResponse{
		BorrowingCapacity: utils.RoundCurrency(capacity),
		MaxMonthlyPayment: utils.RoundCurrency(calculator.MaxMonthlyPayment(in.MonthlyIncome, in.CurrentDebts, ratio)),
	}, nil
}

// Schedule returns the amortization schedule of a standalone loan.
func (s *CreditService) Schedule(_ context.Context, in domain.ScheduleRequest) (domain.ScheduleResponse, error) {
	if fields := s.validator.Struct(in); fields != nil {
		s.metrics.RecordValidationFailure(fields)
		return domain.ScheduleResponse{}, customError.WrapValidationFailed(fields)
	}

	payment, err := calculator.MonthlyPayment(in.Amount, in.AnnualRatePercent, in.DurationMonths)
	if err != nil {
		return domain.ScheduleResponse{}, calculationError(err)
	}
	rows, err := calculator.GenerateAmortizationSchedule(in.Amount, in.AnnualRatePercent, in.DurationMonths, in.MaxRows)
	if err != nil {
		return domain.ScheduleResponse{}, calculationError(err)
	}

	return domain.ScheduleResponse{MonthlyPayment: utils.RoundCurrency(payment), Schedule: rows}, nil
}

// Validate runs every applicant and request rule. Blocking problems are
// reported in the result, never as an error.
func (s *CreditService) Validate(_ context.Context, in domain.ValidationRequest) validator.Result {
	res := s.validator.Validate(in)
	if !res.Valid() {
		s.metrics.RecordValidationFailure(res.Errors)
	}
	return res
}

// ListProducts lists the active catalogue, optionally for one credit type.
func (s *CreditService) ListProducts(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error) {
	if creditType != "" && !creditType.IsValid() {
		return nil, customError.WrapValidationFailed(map[string][]string{"type": {"must be a known credit type"}})
	}

	products, err := s.products.ListActive(ctx, creditType)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return products, nil
}

// RefreshCatalog reloads the cached catalogue when the repository supports it.
func (s *CreditService) RefreshCatalog(ctx context.Context) (int, error) {
	refresher, ok := s.products.(interface {
		Refresh(ctx context.Context) (int, error)
	})
	if !ok {
		return 0, nil
	}

	n, err := refresher.Refresh(ctx)
	s.metrics.RecordCatalogRefresh(n, err)
	if err != nil {
		return 0, customError.WrapCacheError(err)
	}
	return n, nil
}
