package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNameEnhancer is a mock implementation of port.NameEnhancer.
type MockNameEnhancer struct {
	mock.Mock
}

func (m *MockNameEnhancer) ExtractClientName(ctx context.Context, imagePath string) (string, error) {
	args := m.Called(ctx, imagePath)
	return args.String(0), args.Error(1)
}

func (m *MockNameEnhancer) Name() string {
	args := m.Called()
	return args.String(0)
}
