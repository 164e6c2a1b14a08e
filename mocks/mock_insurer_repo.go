package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// MockInsurerRepository is a mock implementation of port.InsurerRepository.
type MockInsurerRepository struct {
	mock.Mock
}

func (m *MockInsurerRepository) Create(ctx context.Context, insurer *domain.Insurer) error {
	args := m.Called(ctx, insurer)
	return args.Error(0)
}

func (m *MockInsurerRepository) List(ctx context.Context) ([]domain.Insurer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Insurer), args.Error(1)
}

func (m *MockInsurerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
