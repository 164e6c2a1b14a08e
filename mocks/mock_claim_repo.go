package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// MockClaimRepository is a mock implementation of port.ClaimRepository.
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, record *domain.ClaimRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimRecord), args.Error(1)
}

func (m *MockClaimRepository) ListByCounselor(ctx context.Context, counselor string, offset, limit int) ([]domain.ClaimRecord, int, error) {
	args := m.Called(ctx, counselor, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimRecord), args.Int(1), args.Error(2)
}

func (m *MockClaimRepository) List(ctx context.Context, offset, limit int) ([]domain.ClaimRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimRecord), args.Int(1), args.Error(2)
}

func (m *MockClaimRepository) CounselorTotals(ctx context.Context) ([]domain.CounselorTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CounselorTotal), args.Error(1)
}

func (m *MockClaimRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
