package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// MockLedgerWriter is a mock implementation of port.LedgerWriter.
type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) Append(ctx context.Context, counselor string, claim *domain.ProcessedClaim) error {
	args := m.Called(ctx, counselor, claim)
	return args.Error(0)
}

func (m *MockLedgerWriter) WorkbookPath(counselor string) string {
	args := m.Called(counselor)
	return args.String(0)
}
