package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// ClaimRepository defines the contract for processed claim persistence.
type ClaimRepository interface {
	Create(ctx context.Context, record *domain.ClaimRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimRecord, error)
	ListByCounselor(ctx context.Context, counselor string, offset, limit int) ([]domain.ClaimRecord, int, error)
	List(ctx context.Context, offset, limit int) ([]domain.ClaimRecord, int, error)
	CounselorTotals(ctx context.Context) ([]domain.CounselorTotal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CounselorRepository defines the contract for counselor reference data.
type CounselorRepository interface {
	Create(ctx context.Context, counselor *domain.Counselor) error
	GetByName(ctx context.Context, name string) (*domain.Counselor, error)
	ListActive(ctx context.Context) ([]domain.Counselor, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// InsurerRepository defines the contract for insurer reference data.
type InsurerRepository interface {
	Create(ctx context.Context, insurer *domain.Insurer) error
	List(ctx context.Context) ([]domain.Insurer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
