package port

import (
	"context"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// LedgerWriter appends processed claims to a counselor's payout workbook.
type LedgerWriter interface {
	Append(ctx context.Context, counselor string, claim *domain.ProcessedClaim) error
	WorkbookPath(counselor string) string
}
