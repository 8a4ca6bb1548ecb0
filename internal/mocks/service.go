package mocks

import (
	"context"

	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/validator"
	"github.com/stretchr/testify/mock"
)

type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) Simulate(ctx context.Context, in domain.SimulationRequest) (domain.SimulationResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.SimulationResult), args.Error(1)
}

func (m *MockCreditService) Compare(ctx context.Context, in domain.ComparisonRequest) (domain.ComparisonSet, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.ComparisonSet), args.Error(1)
}

func (m *MockCreditService) GetComparison(ctx context.Context, id string) (domain.ComparisonSet, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ComparisonSet), args.Error(1)
}

func (m *MockCreditService) ExportCSV(ctx context.Context, set domain.ComparisonSet) (string, string, error) {
	args := m.Called(ctx, set)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockCreditService) ExportJSON(ctx context.Context, set domain.ComparisonSet) ([]byte, string, error) {
	args := m.Called(ctx, set)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockCreditService) BorrowingCapacity(ctx context.Context, in domain.CapacityRequest) (domain.CapacityResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.CapacityResponse), args.Error(1)
}

func (m *MockCreditService) Schedule(ctx context.Context, in domain.ScheduleRequest) (domain.ScheduleResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.ScheduleResponse), args.Error(1)
}

func (m *MockCreditService) Validate(ctx context.Context, in domain.ValidationRequest) validator.Result {
	args := m.Called(ctx, in)
	return args.Get(0).(validator.Result)
}

func (m *MockCreditService) ListProducts(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error) {
	args := m.Called(ctx, creditType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditProduct), args.Error(1)
}
