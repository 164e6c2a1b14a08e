package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecognitionEngine is a mock implementation of port.RecognitionEngine.
type MockRecognitionEngine struct {
	mock.Mock
}

func (m *MockRecognitionEngine) Recognize(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}
