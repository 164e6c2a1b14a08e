package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// MockCounselorRepository is a mock implementation of port.CounselorRepository.
type MockCounselorRepository struct {
	mock.Mock
}

func (m *MockCounselorRepository) Create(ctx context.Context, counselor *domain.Counselor) error {
	args := m.Called(ctx, counselor)
	return args.Error(0)
}

func (m *MockCounselorRepository) GetByName(ctx context.Context, name string) (*domain.Counselor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Counselor), args.Error(1)
}

func (m *MockCounselorRepository) ListActive(ctx context.Context) ([]domain.Counselor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Counselor), args.Error(1)
}

func (m *MockCounselorRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
