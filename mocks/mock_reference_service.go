package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// MockReferenceService is a mock implementation of service.ReferenceService.
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) CreateCounselor(ctx context.Context, name string) (*domain.Counselor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Counselor), args.Error(1)
}

func (m *MockReferenceService) ListCounselors(ctx context.Context) ([]domain.Counselor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Counselor), args.Error(1)
}

func (m *MockReferenceService) DeactivateCounselor(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReferenceService) ResolveCounselor(ctx context.Context, requested string, claim *domain.RawClaim) (string, error) {
	args := m.Called(ctx, requested, claim)
	return args.String(0), args.Error(1)
}

func (m *MockReferenceService) CreateInsurer(ctx context.Context, name string) (*domain.Insurer, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insurer), args.Error(1)
}

func (m *MockReferenceService) ListInsurers(ctx context.Context) ([]domain.Insurer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Insurer), args.Error(1)
}

func (m *MockReferenceService) DeleteInsurer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
